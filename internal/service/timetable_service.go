package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// TimetableService exposes the tenant's weekly grid. One grid exists per
// tenant and saving replaces it whole.
type TimetableService interface {
	Upsert(ctx context.Context, auth AuthContext, payload dto.TimetableUpsertRequest) (dto.TimetableResponse, error)
	Get(ctx context.Context, auth AuthContext) (dto.TimetableResponse, error)
}

type timetableService struct {
	repo      repository.TimetableRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTimetableService builds the timetable service.
func NewTimetableService(repo repository.TimetableRepository, validate *validator.Validate, logger zerolog.Logger) TimetableService {
	return &timetableService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "timetable_service").Logger(),
		now:       time.Now,
	}
}

func (s *timetableService) Upsert(ctx context.Context, auth AuthContext, payload dto.TimetableUpsertRequest) (dto.TimetableResponse, error) {
	if !auth.IsAdmin() {
		return dto.TimetableResponse{}, fmt.Errorf("timetable editing is admin-only: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TimetableResponse{}, err
	}

	timetable := models.Timetable{
		AdminID: auth.TenantID,
		Grid:    datatypes.JSONMap(payload.Grid),
	}
	if err := s.repo.Upsert(ctx, &timetable); err != nil {
		return dto.TimetableResponse{}, err
	}

	stored, err := s.repo.GetByTenant(ctx, auth.TenantID)
	if err != nil {
		return dto.NewTimetableResponse(timetable), nil
	}

	s.logger.Info().Uint("tenant_id", auth.TenantID).Msg("timetable replaced")

	return dto.NewTimetableResponse(stored), nil
}

func (s *timetableService) Get(ctx context.Context, auth AuthContext) (dto.TimetableResponse, error) {
	timetable, err := s.repo.GetByTenant(ctx, auth.TenantID)
	if err != nil {
		return dto.TimetableResponse{}, notFoundOrInternal(err, "timetable")
	}

	return dto.NewTimetableResponse(timetable), nil
}
