package routes

import (
	"time"

	"github.com/arkanalabs/tarot-api/internal/config"
	"github.com/arkanalabs/tarot-api/internal/handlers"
	"github.com/arkanalabs/tarot-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	cardHandler *handlers.CardHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	protected := middleware.Protected(cfg)
	resolve := middleware.ResolveUser(db)
	optional := middleware.OptionalAuth(cfg, db)

	// Banner and health stay outside the rate limiters.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "Server is running",
			"message":   "Welcome to the Tarot API!",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"endpoints": fiber.Map{
				"auth":  "/auth",
				"users": "/users",
				"tarot": "/tarot",
			},
		})
	})
	app.Get("/health", healthHandler.Check)

	// General rate limit: 60 req/min per IP.
	apiLimiter := limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	// Auth endpoints get a stricter 10 req/min.
	auth := app.Group("/auth", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", protected, resolve, authHandler.Me)
	auth.Get("/verify-token", authHandler.VerifyToken)

	tarot := app.Group("/tarot", apiLimiter)
	tarot.Get("/status", cardHandler.Status)
	tarot.Post("/card", optional, cardHandler.InterpretCard)
	tarot.Get("/card/:cardName", optional, cardHandler.GetCardByName)
	tarot.Get("/cards/:cardName", optional, cardHandler.GetCardByName)
	tarot.Post("/summary", optional, cardHandler.CreateSummary)
	tarot.Post("/drawn-card", optional, cardHandler.SaveDrawnCard)
	tarot.Post("/reading-summary", optional, cardHandler.SaveReadingSummary)

	users := app.Group("/users", apiLimiter)
	users.Post("/", userHandler.CreateUser)
	users.Get("/me/cards", protected, resolve, userHandler.GetMyCards)
	users.Put("/:authId/goals", protected, resolve, userHandler.UpdateGoals)
	users.Get("/:authId/goals", protected, resolve, userHandler.GetGoals)
}
