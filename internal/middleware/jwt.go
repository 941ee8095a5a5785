package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/hackdesk-api/internal/auth"
	"github.com/hackdesk/hackdesk-api/internal/utils"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// JWTProtected returns a middleware that validates bearer tokens and binds
// the caller's identity to the request. The role claim is normalized here;
// downstream code only ever sees canonical role values.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := auth.VerifyToken(tokenString, secret)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", claims.UserID)
		if role, ok := workflow.ParseRole(claims.Role); ok {
			c.Locals("user_role", role.String())
		}

		return c.Next()
	}
}

// UserID extracts the authenticated user id bound by JWTProtected.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

// UserRole extracts the canonical role bound by JWTProtected.
func UserRole(c *fiber.Ctx) workflow.Role {
	value, _ := c.Locals("user_role").(string)
	role, _ := workflow.ParseRole(value)
	return role
}
