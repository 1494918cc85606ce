package dto

type CardRef struct {
	Name string `json:"name"`
}

type InterpretRequest struct {
	Cards     []CardRef `json:"cards"`
	UserGoals string    `json:"userGoals"`
}

type ExplainResponse struct {
	Explanation   string `json:"explanation"`
	GoalsIncluded bool   `json:"goalsIncluded"`
}

// ProfileInfo reports which profile fields contributed to a reading's
// personal context. Used purely for client-side disclosure.
type ProfileInfo struct {
	Goals  bool `json:"goals"`
	Gender bool `json:"gender"`
	Zodiac bool `json:"zodiac"`
	Age    bool `json:"age"`
}

type SummaryResponse struct {
	Success             bool        `json:"success"`
	Summary             string      `json:"summary"`
	Cards               []string    `json:"cards"`
	ProfileInfoIncluded ProfileInfo `json:"profileInfoIncluded"`
}

type DrawnCardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    *int   `json:"position"`
	SessionID   string `json:"sessionId"`
}

type ReadingSummaryRequest struct {
	SessionID string `json:"sessionId"`
	Summary   string `json:"summary"`
}
