package models

import (
	"time"
)

// User is one account. AuthID is the sole lookup key for login
// reconciliation; ID is the sole lookup key for token authorization.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AuthID        string     `gorm:"type:text;not null;uniqueIndex" json:"authId"`
	Username      string     `gorm:"size:255;not null" json:"username"`
	Email         string     `gorm:"size:255" json:"email"`
	Name          string     `gorm:"size:255" json:"name"`
	Picture       string     `gorm:"size:255" json:"picture"`
	AuthProvider  string     `gorm:"size:20;not null" json:"authProvider"`
	Goals         string     `gorm:"type:text" json:"goals"`
	Gender        string     `gorm:"size:1" json:"gender"`
	ZodiacSign    string     `gorm:"size:20" json:"zodiacSign"`
	Birthday      *time.Time `json:"birthday"`
	EmailVerified bool       `gorm:"default:false" json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
