package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sofreh/internal/config"
	"github.com/example/sofreh/internal/models"
	"github.com/example/sofreh/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret: "middleware-test-secret",
		SessionTTL:    time.Hour,
	}
}

func newTestApp(cfg *config.Config, adminOnly bool) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{AuthMiddleware(cfg)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		userID, _ := GetCurrentUserID(c)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	app.Get("/secure", handlers...)
	return app
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	app := newTestApp(testConfig(), false)

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	cfg := testConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleCustomer, cfg.SessionTTL)
	require.NoError(t, err)

	app := newTestApp(cfg, false)
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareAcceptsSessionCookie(t *testing.T) {
	cfg := testConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleCustomer, cfg.SessionTTL)
	require.NoError(t, err)

	app := newTestApp(cfg, false)
	req := httptest.NewRequest("GET", "/secure", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	app := newTestApp(cfg, false)
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	cfg := testConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleCustomer, cfg.SessionTTL)
	require.NoError(t, err)

	app := newTestApp(cfg, true)
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	cfg := testConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleAdmin, cfg.SessionTTL)
	require.NoError(t, err)

	app := newTestApp(cfg, true)
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
