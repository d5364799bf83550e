package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"techmart/internal/services"
)

// UserIDKey is the fiber.Ctx locals key holding the authenticated user's ID
// as a uint. OptionalAuth leaves it unset for anonymous requests.
const UserIDKey = "user_id"

// AuthRequired rejects requests without a valid Bearer token and stores the
// caller's identity in the request locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, email, ok := identityFromHeader(c, authService)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "a valid access token is required",
			})
		}
		c.Locals(UserIDKey, userID)
		c.Locals("email", email)
		return c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token is present
// and lets the request through anonymously otherwise. Catalog browsing uses
// this to personalize without requiring login.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, email, ok := identityFromHeader(c, authService); ok {
			c.Locals(UserIDKey, userID)
			c.Locals("email", email)
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID from the request locals, or 0
// for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(UserIDKey).(uint); ok {
		return id
	}
	return 0
}

func identityFromHeader(c *fiber.Ctx, authService *services.AuthService) (uint, string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "", false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return 0, "", false
	}

	// JSON numbers decode as float64 inside jwt.MapClaims.
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", false
	}
	email, _ := claims["email"].(string)
	return uint(rawID), email, true
}
