package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/service"
)

type mockTestService struct {
	lastSubmitID uint
	lastAnswers  map[uint]string
	result       dto.TestResultResponse
	err          error
}

func (m *mockTestService) Create(_ context.Context, _ service.AuthContext, _ dto.TestCreateRequest) (dto.TestResponse, error) {
	return dto.TestResponse{}, m.err
}

func (m *mockTestService) Get(_ context.Context, _ service.AuthContext, _ uint) (dto.TestResponse, error) {
	return dto.TestResponse{}, m.err
}

func (m *mockTestService) List(_ context.Context, _ service.AuthContext, _ uint) ([]dto.TestResponse, error) {
	return nil, m.err
}

func (m *mockTestService) Update(_ context.Context, _ service.AuthContext, _ uint, _ dto.TestUpdateRequest) (dto.TestResponse, error) {
	return dto.TestResponse{}, m.err
}

func (m *mockTestService) Delete(_ context.Context, _ service.AuthContext, _ uint) error {
	return m.err
}

func (m *mockTestService) Submit(_ context.Context, _ service.AuthContext, id uint, payload dto.TestSubmitRequest) (dto.TestResultResponse, error) {
	m.lastSubmitID = id
	m.lastAnswers = payload.Answers
	if m.err != nil {
		return dto.TestResultResponse{}, m.err
	}
	return m.result, nil
}

func newTestApp(svc service.TestService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/tests")
	group.Use(asPrincipal(service.AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1}))
	handler.NewTestHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestTestHandler_SubmitReturnsResult(t *testing.T) {
	svc := &mockTestService{result: dto.TestResultResponse{TestID: 4, Score: 7, MaxScore: 10, Percentage: 70, Correct: 2, Total: 3}}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/4/submit", newJSONBody(`{"answers":{"1":"a","2":"c","3":"c"}}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Data    dto.TestResultResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "test submitted", body.Message)
	require.Equal(t, 70, body.Data.Percentage)
	require.Equal(t, uint(4), svc.lastSubmitID)
	require.Equal(t, map[uint]string{1: "a", 2: "c", 3: "c"}, svc.lastAnswers)
}

func TestTestHandler_SubmitRejectsMalformedBody(t *testing.T) {
	app := newTestApp(&mockTestService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/4/submit", newJSONBody(`{"answers":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTestHandler_SubmitMapsClosedWindow(t *testing.T) {
	svc := &mockTestService{err: service.ErrInvalid}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/4/submit", newJSONBody(`{"answers":{"1":"a"}}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTestHandler_GetMapsNotFound(t *testing.T) {
	svc := &mockTestService{err: service.ErrNotFound}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tests/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
