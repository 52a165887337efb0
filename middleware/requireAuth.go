package middleware

import (
	"strings"

	"passkey_mfa_ms/services"

	"github.com/gofiber/fiber/v2"
)

// EmployeeIDKey is the context key holding the authenticated principal.
const EmployeeIDKey = "employeeId"

// AuthMiddleware resolves the authenticated employee from the bearer token
// issued by the user management service. Everything behind it receives an
// already-authenticated principal, passkey login endpoints stay outside.
func AuthMiddleware(jwtService services.IJWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid token",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwtService.ParseJWT(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, err := jwtService.GetClaims(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token subject",
			})
		}

		c.Locals(EmployeeIDKey, uint(sub))
		return c.Next()
	}
}
