package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/auth"
	"github.com/noah-isme/campus-go-api/internal/middleware"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/service"
)

func perform(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestProtectedAcceptsValidBearer(t *testing.T) {
	tokens := auth.NewManager("access", "refresh", time.Minute, time.Hour)
	access, err := tokens.IssueAccessToken(auth.Principal{ID: 8, Role: models.RoleStudent, TenantID: 3})
	require.NoError(t, err)

	var gotID uint
	var gotRole string
	app := fiber.New()
	app.Use(middleware.Protected(tokens))
	app.Get("/", func(c *fiber.Ctx) error {
		gotID, _ = c.Locals(middleware.LocalUserID).(uint)
		gotRole, _ = c.Locals(middleware.LocalUserRole).(string)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := perform(t, app, map[string]string{"Authorization": "Bearer " + access})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.Equal(t, uint(8), gotID)
	require.Equal(t, models.RoleStudent, gotRole)
}

func TestProtectedRejectsMissingAndBadTokens(t *testing.T) {
	tokens := auth.NewManager("access", "refresh", time.Minute, time.Hour)
	refresh, err := tokens.IssueRefreshToken(auth.Principal{ID: 8, Role: models.RoleStudent})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(middleware.Protected(tokens))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp := perform(t, app, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = perform(t, app, map[string]string{"Authorization": "Bearer not-a-token"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// A refresh token must not open protected routes.
	resp = perform(t, app, map[string]string{"Authorization": "Bearer " + refresh})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	newApp := func(role string) *fiber.App {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(middleware.LocalUserID, uint(1))
			c.Locals(middleware.LocalUserRole, role)
			return c.Next()
		})
		app.Get("/", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNoContent)
		})
		return app
	}

	resp := perform(t, newApp("Teacher"), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode, "role matching ignores case")

	resp = perform(t, newApp(models.RoleStudent), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

type staticResolver struct {
	authCtx service.AuthContext
	err     error
}

func (r staticResolver) Resolve(_ context.Context, principalID uint, role string) (service.AuthContext, error) {
	if r.err != nil {
		return service.AuthContext{}, r.err
	}
	out := r.authCtx
	out.PrincipalID = principalID
	out.Role = role
	return out, nil
}

func TestTenantContextStoresAuthContext(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, uint(8))
		c.Locals(middleware.LocalUserRole, models.RoleStudent)
		return c.Next()
	})
	var stored service.AuthContext
	app.Use(middleware.TenantContext(staticResolver{authCtx: service.AuthContext{TenantID: 3}}))
	app.Get("/", func(c *fiber.Ctx) error {
		stored, _ = c.Locals(middleware.LocalAuthContext).(service.AuthContext)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := perform(t, app, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.Equal(t, uint(3), stored.TenantID)
	require.Equal(t, uint(8), stored.PrincipalID)
}

func TestTenantContextRejectsStalePrincipals(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, uint(8))
		c.Locals(middleware.LocalUserRole, models.RoleStudent)
		return c.Next()
	})
	app.Use(middleware.TenantContext(staticResolver{err: service.ErrNotFound}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp := perform(t, app, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "a deleted account no longer authenticates")
}

func TestTenantContextRequiresAuthGateFirst(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.TenantContext(staticResolver{}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp := perform(t, app, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
