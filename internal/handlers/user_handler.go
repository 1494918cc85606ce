package handlers

import (
	"errors"
	"time"

	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/middleware"
	"github.com/arkanalabs/tarot-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.AuthID == "" || req.AuthProvider == "" || req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "username, authProvider and authId are required",
		})
	}

	user, err := h.users.CreateUser(req.Username, req.AuthProvider, req.AuthID, req.Goals)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateGoals applies a partial profile update. Fields absent from the
// body keep their stored values.
func (h *UserHandler) UpdateGoals(c *fiber.Ctx) error {
	authID := c.Params("authId")

	var req dto.UpdateGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		parsed, err := parseBirthday(*req.Birthday)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid birthday format",
			})
		}
		birthday = &parsed
	}

	user, err := h.users.UpdateProfile(authID, req.Goals, req.Gender, req.ZodiacSign, birthday)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(user)
}

func (h *UserHandler) GetGoals(c *fiber.Ctx) error {
	authID := c.Params("authId")

	user, err := h.users.FindByAuthID(authID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(dto.GoalsResponse{Goals: user.Goals})
}

// GetMyCards returns the caller's drawn cards plus the same cards grouped
// into readings by session.
func (h *UserHandler) GetMyCards(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Authentication required",
		})
	}

	resp, err := h.users.CardsGroupedBySession(user.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(resp)
}

func parseBirthday(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
