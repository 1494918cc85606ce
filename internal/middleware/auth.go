package middleware

import (
	"errors"
	"strings"

	"github.com/arkanalabs/tarot-api/internal/auth"
	"github.com/arkanalabs/tarot-api/internal/config"
	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// userLocal is the locals key under which the resolved user is attached.
const userLocal = "authUser"

// Machine-readable auth failure codes.
const (
	CodeNoToken      = "NO_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeUserNotFound = "USER_NOT_FOUND"
)

// Protected verifies the bearer token and maps each failure cause to its
// own status and code. On success the verified token lands in locals for
// ResolveUser to pick up.
func Protected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.SigningSecret())},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
				return authError(c, fiber.StatusUnauthorized, CodeNoToken, "Authorization header required")
			case errors.Is(err, jwt.ErrTokenExpired):
				return authError(c, fiber.StatusUnauthorized, CodeTokenExpired, "Token expired")
			default:
				return authError(c, fiber.StatusForbidden, CodeInvalidToken, "Invalid token")
			}
		},
	})
}

// ResolveUser turns verified claims into a live user record. The user row
// is re-queried on every request, so a deleted user's tokens stop working
// on their very next request.
func ResolveUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return authError(c, fiber.StatusForbidden, CodeInvalidToken, "Invalid token")
		}

		claims, err := auth.ClaimsFrom(token)
		if err != nil {
			return authError(c, fiber.StatusForbidden, CodeInvalidToken, "Invalid token claims")
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return authError(c, fiber.StatusForbidden, CodeUserNotFound, "User not found")
			}
			return fiber.ErrInternalServerError
		}

		c.Locals(userLocal, &user)
		return c.Next()
	}
}

// OptionalAuth attaches the resolved user when a valid bearer token is
// present and continues anonymously otherwise. It never rejects.
func OptionalAuth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	codec := auth.NewTokenCodec(cfg.SigningSecret(), cfg.TokenExpiry)
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		claims, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Next()
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			return c.Next()
		}

		c.Locals(userLocal, &user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by ResolveUser or OptionalAuth,
// or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(userLocal).(*models.User); ok {
		return user
	}
	return nil
}

func authError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
		Code:    code,
	})
}
