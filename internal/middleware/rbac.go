package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/hackdesk-api/internal/utils"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// RequireRole ensures that the authenticated user holds one of the allowed
// roles. Spelling variants in the allow list are normalized the same way the
// token claim is, so the comparison is always canonical-to-canonical.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[workflow.Role]struct{}, len(roles))
	for _, raw := range roles {
		if role, ok := workflow.ParseRole(raw); ok {
			allowed[role] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := UserRole(c)
		if _, ok := allowed[role]; !ok || role == "" {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
