package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/middleware"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/service"
)

// asPrincipal injects an already verified identity, standing in for the
// auth and tenant middleware pair.
func asPrincipal(auth service.AuthContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalAuthContext, auth)
		return c.Next()
	}
}

func newJSONBody(payload string) io.Reader {
	return strings.NewReader(payload)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

type mockNoticeService struct {
	lastLimit   int
	lastPayload dto.NoticeCreateRequest
	notices     []dto.NoticeResponse
	err         error
}

func (m *mockNoticeService) Create(_ context.Context, _ service.AuthContext, payload dto.NoticeCreateRequest) (dto.NoticeResponse, error) {
	m.lastPayload = payload
	if m.err != nil {
		return dto.NoticeResponse{}, m.err
	}
	return dto.NoticeResponse{ID: 1, Title: payload.Title, Content: payload.Content, CreatedAt: time.Now()}, nil
}

func (m *mockNoticeService) List(_ context.Context, _ service.AuthContext, limit int) ([]dto.NoticeResponse, error) {
	m.lastLimit = limit
	return m.notices, m.err
}

func (m *mockNoticeService) Delete(_ context.Context, _ service.AuthContext, _ uint) error {
	return m.err
}

func newNoticeApp(svc service.NoticeService, auth service.AuthContext) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/notices")
	if auth.PrincipalID != 0 {
		group.Use(asPrincipal(auth))
	}
	handler.NewNoticeHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestNoticeHandler_ListSuccess(t *testing.T) {
	svc := &mockNoticeService{notices: []dto.NoticeResponse{{ID: 7, Title: "Exam week"}}}
	app := newNoticeApp(svc, service.AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notices?limit=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                 `json:"success"`
		Data    []dto.NoticeResponse `json:"data"`
		Message string               `json:"message"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "notices retrieved", body.Message)
	require.Len(t, body.Data, 1)
	require.Equal(t, uint(7), body.Data[0].ID)
	require.Equal(t, 5, svc.lastLimit)
}

func TestNoticeHandler_CreateReturnsCreated(t *testing.T) {
	svc := &mockNoticeService{}
	app := newNoticeApp(svc, service.AuthContext{PrincipalID: 1, Role: models.RoleAdmin, TenantID: 1})

	payload := `{"title":"Exam week","content":"Hall B, bring your ID","priority":"important"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notices", newJSONBody(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Exam week", svc.lastPayload.Title)
	require.Equal(t, "important", svc.lastPayload.Priority)
}

func TestNoticeHandler_RequiresIdentity(t *testing.T) {
	app := newNoticeApp(&mockNoticeService{}, service.AuthContext{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notices", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNoticeHandler_ErrorMapping(t *testing.T) {
	svc := &mockNoticeService{err: service.ErrForbidden}
	app := newNoticeApp(svc, service.AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notices/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
}

func TestNoticeHandler_RejectsBadID(t *testing.T) {
	app := newNoticeApp(&mockNoticeService{}, service.AuthContext{PrincipalID: 1, Role: models.RoleAdmin, TenantID: 1})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notices/0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
