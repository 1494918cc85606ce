package dto

import (
	"time"

	"github.com/arkanalabs/tarot-api/internal/models"
)

type CreateUserRequest struct {
	Username     string `json:"username"`
	AuthProvider string `json:"authProvider"`
	AuthID       string `json:"authId"`
	Goals        string `json:"goals"`
}

// UpdateGoalsRequest carries a partial profile update. Pointer fields
// distinguish "omitted" from "set to empty": omitted fields must not
// clear existing values.
type UpdateGoalsRequest struct {
	Goals      string  `json:"goals"`
	Gender     *string `json:"gender"`
	ZodiacSign *string `json:"zodiacSign"`
	Birthday   *string `json:"birthday"`
}

type GoalsResponse struct {
	Goals string `json:"goals"`
}

// Reading groups the drawn cards of one session.
type Reading struct {
	Date  time.Time          `json:"date"`
	Cards []models.DrawnCard `json:"cards"`
}

type UserCardsResponse struct {
	Cards    []models.DrawnCard `json:"cards"`
	Readings []Reading          `json:"readings"`
}
