// middleware/admin_auth.go
package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AdminAuthMiddleware guards operator routes (artwork upload, maintenance
// toggles) with a shared token. ADMIN_TOKEN must be set or startup fails.
func AdminAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("ADMIN_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ ADMIN_TOKEN is not set — admin routes cannot be secured")
	}

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")
		if token == "" {
			// Also accept "Authorization: Bearer <token>"
			authHeader := c.Get("Authorization")
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			log.Warnf("🚫 Missing admin token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin token missing",
			})
		}
		if token != expectedToken {
			log.Warnf("❌ Invalid admin token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}

		return c.Next()
	}
}
