package handlers

import (
	"errors"
	"strings"

	"github.com/arkanalabs/tarot-api/internal/auth"
	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/middleware"
	"github.com/arkanalabs/tarot-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	users *services.UserService
	codec *auth.TokenCodec
}

func NewAuthHandler(users *services.UserService, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{users: users, codec: codec}
}

// Login reconciles a provider login into a user record and issues a
// bearer token. Registration is implicit: 201 for a new user, 200 for an
// existing one.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.AuthProvider == "" || req.AuthID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing required authentication data",
		})
	}

	identity, err := auth.Normalize(auth.LoginPayload{
		AuthProvider: req.AuthProvider,
		AuthID:       req.AuthID,
		Username:     req.Username,
		Email:        req.Email,
		Picture:      req.Picture,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidAnonymousID) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid anonymous auth ID format",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	user, created, err := h.users.ReconcileLogin(identity, req.AuthProvider)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	token, err := h.codec.Issue(user.ID, user.AuthProvider)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.LoginResponse{Token: token, User: *user})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}
	return c.JSON(user)
}

// VerifyToken is a diagnostic that reports whether a well-formed bearer
// header reached the server. It does not verify the token itself.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "No authorization header",
		})
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid authorization format",
		})
	}

	token := strings.TrimPrefix(header, "Bearer ")
	return c.JSON(dto.VerifyTokenResponse{
		Status:        "success",
		TokenReceived: token != "",
		TokenLength:   len(token),
	})
}
