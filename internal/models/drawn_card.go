package models

import (
	"time"
)

// SummaryPosition marks a DrawnCard row that holds a synthesized reading
// summary instead of an actual card.
const SummaryPosition = 999

// SummaryCardName is the fixed name of summary rows.
const SummaryCardName = "Reading Summary"

// DrawnCard is one card revealed in a reading, or a reading summary row
// (Position == SummaryPosition). UserID is a weak back-reference and may
// be absent for anonymous draws.
type DrawnCard struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      *uint     `gorm:"index" json:"userId"`
	Position    *int      `json:"position"`
	SessionID   string    `gorm:"size:255;index" json:"sessionId"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
