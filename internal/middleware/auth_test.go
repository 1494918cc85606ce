package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arkanalabs/tarot-api/internal/auth"
	"github.com/arkanalabs/tarot-api/internal/config"
	"github.com/arkanalabs/tarot-api/internal/dto"
	"github.com/arkanalabs/tarot-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret-key",
		TokenExpiry: time.Hour,
	}
}

// protectedApp mounts a probe route behind the full auth chain.
func protectedApp(cfg *config.Config, db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Get("/probe", Protected(cfg), ResolveUser(db), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": CurrentUser(c).ID})
	})
	return app
}

func TestProtected_NoToken(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg, setupTestDB(t))

	req := httptest.NewRequest("GET", "/probe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeNoToken, body.Code)
}

func TestProtected_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg, setupTestDB(t))

	expired := auth.NewTokenCodec(cfg.SigningSecret(), -time.Hour)
	token, err := expired.Issue(1, "google")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeTokenExpired, body.Code)
}

func TestProtected_BadSignature(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg, setupTestDB(t))

	forged := auth.NewTokenCodec("some-other-secret", time.Hour)
	token, err := forged.Issue(1, "google")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeInvalidToken, body.Code)
}

func TestResolveUser_DeletedUserRejectedImmediately(t *testing.T) {
	cfg := testConfig()
	db := setupTestDB(t)
	app := protectedApp(cfg, db)

	user := models.User{AuthID: "google|1", Username: "Mia", AuthProvider: "google"}
	require.NoError(t, db.Create(&user).Error)

	codec := auth.NewTokenCodec(cfg.SigningSecret(), time.Hour)
	token, err := codec.Issue(user.ID, "google")
	require.NoError(t, err)

	// Token works while the user exists.
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Delete the user; the very next request with the same token fails.
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	req = httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeUserNotFound, body.Code)
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	cfg := testConfig()
	db := setupTestDB(t)

	app := fiber.New()
	app.Get("/probe", OptionalAuth(cfg, db), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"authenticated": CurrentUser(c) != nil})
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body["authenticated"])
}

func TestOptionalAuth_InvalidTokenStillPasses(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/probe", OptionalAuth(cfg, setupTestDB(t)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOptionalAuth_ValidTokenAttachesUser(t *testing.T) {
	cfg := testConfig()
	db := setupTestDB(t)

	user := models.User{AuthID: "anonymous|u1", Username: "Anonymer Benutzer", AuthProvider: "anonymous"}
	require.NoError(t, db.Create(&user).Error)

	codec := auth.NewTokenCodec(cfg.SigningSecret(), time.Hour)
	token, err := codec.Issue(user.ID, "anonymous")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/probe", OptionalAuth(cfg, db), func(c *fiber.Ctx) error {
		current := CurrentUser(c)
		require.NotNil(t, current)
		return c.JSON(fiber.Map{"userId": current.ID})
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
