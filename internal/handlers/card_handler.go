package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/middleware"
	"github.com/arkanalabs/tarot-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	readings *services.ReadingService
}

func NewCardHandler(readings *services.ReadingService) *CardHandler {
	return &CardHandler{readings: readings}
}

func (h *CardHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "message": "Tarot API is running"})
}

// InterpretCard interprets the first submitted card and persists the
// result as a drawn card, owned by the caller when authenticated.
func (h *CardHandler) InterpretCard(c *fiber.Ctx) error {
	var req dto.InterpretRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if len(req.Cards) == 0 || req.Cards[0].Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Ungültige Karteninformationen",
		})
	}
	cardName := req.Cards[0].Name

	description := h.readings.InterpretCard(c.Context(), cardName, req.UserGoals)

	var userID *uint
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	card, err := h.readings.SaveCard(userID, cardName, description, nil, "")
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// GetCardByName interprets the card named in the URL, enriched with the
// caller's stored goals when authenticated.
func (h *CardHandler) GetCardByName(c *fiber.Ctx) error {
	cardName := c.Params("cardName")
	if decoded, err := url.PathUnescape(cardName); err == nil {
		cardName = decoded
	}
	if cardName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Ungültige Karteninformationen",
		})
	}

	var userGoals string
	if user := middleware.CurrentUser(c); user != nil {
		userGoals, _ = h.readings.BuildPersonalContext(user.ID)
	}

	explanation := h.readings.InterpretCard(c.Context(), cardName, userGoals)
	return c.JSON(dto.ExplainResponse{
		Explanation:   explanation,
		GoalsIncluded: userGoals != "",
	})
}

// CreateSummary builds one coherent reading across the submitted cards.
// Profile context comes from the stored user when authenticated, else
// from the goals supplied in the request.
func (h *CardHandler) CreateSummary(c *fiber.Ctx) error {
	var req dto.InterpretRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if len(req.Cards) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid or empty cards array received",
		})
	}

	cardNames := make([]string, len(req.Cards))
	for i, card := range req.Cards {
		cardNames[i] = card.Name
	}

	var personalContext string
	var profileInfo dto.ProfileInfo
	if user := middleware.CurrentUser(c); user != nil {
		personalContext, profileInfo = h.readings.BuildPersonalContext(user.ID)
	}
	if personalContext == "" && req.UserGoals != "" {
		personalContext = fmt.Sprintf("Ziele der Person: %s. ", req.UserGoals)
		profileInfo.Goals = true
	}

	summary, err := h.readings.InterpretSet(c.Context(), cardNames, personalContext)
	if err != nil {
		if errors.Is(err, services.ErrTooFewCards) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fiber.ErrInternalServerError
	}

	return c.JSON(dto.SummaryResponse{
		Success:             true,
		Summary:             summary,
		Cards:               cardNames,
		ProfileInfoIncluded: profileInfo,
	})
}

// SaveDrawnCard persists a card the client already revealed.
func (h *CardHandler) SaveDrawnCard(c *fiber.Ctx) error {
	var req dto.DrawnCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Card name is required",
		})
	}

	var userID *uint
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	card, err := h.readings.SaveCard(userID, req.Name, req.Description, req.Position, req.SessionID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// SaveReadingSummary persists the sentinel summary row of a session.
func (h *CardHandler) SaveReadingSummary(c *fiber.Ctx) error {
	var req dto.ReadingSummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.SessionID == "" || req.Summary == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "sessionId and summary are required",
		})
	}

	var userID *uint
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	record, err := h.readings.SaveReadingSummary(userID, req.SessionID, req.Summary)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}
