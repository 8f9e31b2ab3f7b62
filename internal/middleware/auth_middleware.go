package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/user/fxjournal/internal/auth"
)

// Protected verifies bearer-token authentication using the given token
// manager. Every failure mode gets the same 401 so callers cannot probe
// whether a token is malformed, expired or forged.
func Protected(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Store user identity in context for downstream handlers
		c.Locals("userID", userID)

		return c.Next()
	}
}
