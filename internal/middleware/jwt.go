package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-go-api/internal/auth"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// Locals keys populated by the authentication gate.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalTenantID = "tenant_id"
)

// Protected returns a middleware that validates bearer access tokens and
// exposes the verified principal to downstream handlers. No handler code
// runs when verification fails.
func Protected(tokens *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing or malformed")
		}

		principal, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(LocalUserID, principal.ID)
		c.Locals(LocalUserRole, principal.Role)
		if principal.TenantID != 0 {
			c.Locals(LocalTenantID, principal.TenantID)
		}

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authorization := c.Get("Authorization")
	if authorization == "" {
		return "", false
	}

	const bearer = "bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), bearer) {
		return "", false
	}

	token := strings.TrimSpace(authorization[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
