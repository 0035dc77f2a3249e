package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/riky007-ux/stylemingle-sub000/internal/auth"
)

// UserIDLocalKey is the key the authenticated user id is stored under in
// Fiber's context locals.
const UserIDLocalKey = "user_id"

// Auth authenticates requests by resolving the Bearer token through the
// verifier and storing the user id in context locals. Requests without a
// resolvable identity are rejected with 401 before reaching the handler.
func Auth(verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		userID := verifier.Verify(token)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}
