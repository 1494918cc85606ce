package dto

import "github.com/arkanalabs/tarot-api/internal/models"

type LoginRequest struct {
	AuthProvider string `json:"authProvider"`
	AuthID       string `json:"authId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Picture      string `json:"picture"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type VerifyTokenResponse struct {
	Status        string `json:"status"`
	TokenReceived bool   `json:"tokenReceived"`
	TokenLength   int    `json:"tokenLength"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
