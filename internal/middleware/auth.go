package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/haiminh-dev/projecthub/internal/models"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/token"
)

// UserKey is the fiber.Ctx locals key under which Protect stores the
// authenticated user.
const UserKey = "current_user"

// Protect verifies the bearer access token and resolves it to a user record
// (without credential fields) attached to the request context.
func Protect(tokens *token.Issuer, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authorized"})
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authorized"})
		}

		claims, err := tokens.Verify(parts[1], token.ClassAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		user, err := users.FindByID(c.Context(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect, or nil outside a guarded
// route.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
