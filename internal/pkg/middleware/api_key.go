package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jcid-dev/MoodleLink/internal/pkg/env"
)

// APIKeyAuthMiddleware guards the admin API with a shared key. Real operator
// authentication belongs to the host platform; this only keeps the connector
// API off the open internet.
func APIKeyAuthMiddleware() fiber.Handler {
	return keyMiddleware("ADMIN_API_TOKEN")
}

// WebhookAuthMiddleware guards the order-status webhook with its own shared
// key, so shop credentials and operator credentials stay separate.
func WebhookAuthMiddleware() fiber.Handler {
	return keyMiddleware("WEBHOOK_TOKEN")
}

func keyMiddleware(envKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := env.GetEnv(envKey, "")
		if expected == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "not_configured", "message": envKey + " is not configured"})
		}

		provided := extractAPIKeyFromHeader(c)
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
		}

		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
