package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lastresort-api/internal/utils"
)

// RequireUser ensures a verified user identity is bound to the request.
// Admin rights are checked per operation at the service layer, not here.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's identifier, or "" when the request
// carries no verified identity.
func UserID(c *fiber.Ctx) string {
	if value := c.Locals("user_id"); value != nil {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
