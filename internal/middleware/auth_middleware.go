package middleware

import (
	"strings"

	"go-invoicehub/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the access token and sets user info in context.
// The token is read from the access_token cookie first, then the
// Authorization header.
func RequireAuth(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("access_token")

		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
			}
			tokenString = parts[1]
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Username)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// RequireAdmin allows only tokens issued to admin accounts through.
// It must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role == "" {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: admin access required"})
		}
		return c.Next()
	}
}
