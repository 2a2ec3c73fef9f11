package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/omnivion/omnivion-api/internal/utils"
)

// RequireRole gates a route group to the given dashboard roles. The role is
// read from the user_role local set by JWTProtected and matched
// case-insensitively; requests with no resolvable role are rejected.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		if normalized := strings.ToLower(strings.TrimSpace(role)); normalized != "" {
			allowed = append(allowed, normalized)
		}
	}

	return func(c *fiber.Ctx) error {
		role := roleFromLocals(c)
		if role != "" {
			for _, candidate := range allowed {
				if role == candidate {
					return c.Next()
				}
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}

func roleFromLocals(c *fiber.Ctx) string {
	switch v := c.Locals("user_role").(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		return ""
	}
}
