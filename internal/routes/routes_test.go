package routes

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sofreh/internal/config"
	"github.com/example/sofreh/internal/models"
	"github.com/example/sofreh/internal/services"
	"github.com/example/sofreh/internal/utils"
)

// The guards reject before any handler touches storage, so wiring can be
// exercised with a nil database handle.
func newRoutedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	Register(app, nil, cfg, services.LogSMSSender{})
	return app
}

func routeTestConfig() *config.Config {
	return &config.Config{
		SessionSecret: "routes-test-secret",
		SessionTTL:    time.Hour,
	}
}

func TestOrderStatusRouteRequiresSession(t *testing.T) {
	app := newRoutedApp(routeTestConfig())

	req := httptest.NewRequest("PATCH", "/api/orders/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOrderStatusRouteRejectsCustomer(t *testing.T) {
	cfg := routeTestConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleCustomer, cfg.SessionTTL)
	require.NoError(t, err)

	app := newRoutedApp(cfg)
	req := httptest.NewRequest("PATCH", "/api/orders/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminGroupRejectsCustomer(t *testing.T) {
	cfg := routeTestConfig()
	token, err := utils.GenerateToken(cfg.SessionSecret, uuid.New(), models.RoleCustomer, cfg.SessionTTL)
	require.NoError(t, err)

	app := newRoutedApp(cfg)
	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
