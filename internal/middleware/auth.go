package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sofreh/internal/config"
	"github.com/example/sofreh/internal/models"
	"github.com/example/sofreh/internal/utils"
)

const (
	userContextKey = "currentUserID"
	roleContextKey = "currentUserRole"

	// SessionCookie is the cookie the session token travels in. A Bearer
	// header works too.
	SessionCookie = "session"
)

// AuthMiddleware validates session tokens and loads the authenticated
// identity into context. Verification is a pure signature+expiry check,
// no store lookup.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing session")
		}

		userID, role, err := utils.ParseToken(cfg.SessionSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session")
		}

		c.Locals(userContextKey, userID)
		c.Locals(roleContextKey, role)
		return c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin callers. It must run after
// AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCurrentRole(c) != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie
	}

	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentRole extracts the authenticated user role from context.
func GetCurrentRole(c *fiber.Ctx) models.Role {
	if role, ok := c.Locals(roleContextKey).(models.Role); ok {
		return role
	}
	return ""
}
