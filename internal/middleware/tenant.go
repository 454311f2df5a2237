package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// LocalAuthContext is the locals key holding the resolved service.AuthContext.
const LocalAuthContext = "auth_context"

// TenantResolver maps an authenticated principal to its owning tenant.
type TenantResolver interface {
	Resolve(ctx context.Context, principalID uint, role string) (service.AuthContext, error)
}

// TenantContext resolves the tenant for the authenticated principal and
// stores the resulting AuthContext for handlers. Every tenant-scoped route
// must pass through here; skipping it is how cross-tenant leaks happen.
func TenantContext(resolver TenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(LocalUserID).(uint)
		role := normalizeRoleValue(c.Locals(LocalUserRole))
		if userID == 0 || role == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		authCtx, err := resolver.Resolve(c.Context(), userID, role)
		if err != nil {
			if errors.Is(err, service.ErrForbidden) {
				return utils.SendError(c, fiber.StatusForbidden, "unknown role")
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "stale credentials")
		}

		c.Locals(LocalAuthContext, authCtx)
		return c.Next()
	}
}
