package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// NoticeService exposes tenant-wide announcements. Publishing a notice fans
// a notification out to the targeted audience.
type NoticeService interface {
	Create(ctx context.Context, auth AuthContext, payload dto.NoticeCreateRequest) (dto.NoticeResponse, error)
	List(ctx context.Context, auth AuthContext, limit int) ([]dto.NoticeResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
}

type noticeService struct {
	repo      repository.NoticeRepository
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	notifier  Notifier
	sanitizer *bluemonday.Policy
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNoticeService builds the notice service.
func NewNoticeService(repo repository.NoticeRepository, teachers repository.TeacherRepository, students repository.StudentRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) NoticeService {
	return &noticeService{
		repo:      repo,
		teachers:  teachers,
		students:  students,
		notifier:  notifier,
		sanitizer: bluemonday.UGCPolicy(),
		validator: validate,
		logger:    logger.With().Str("component", "notice_service").Logger(),
		now:       time.Now,
	}
}

func (s *noticeService) Create(ctx context.Context, auth AuthContext, payload dto.NoticeCreateRequest) (dto.NoticeResponse, error) {
	if !auth.IsAdmin() {
		return dto.NoticeResponse{}, fmt.Errorf("notices are admin-only: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoticeResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.NoticeResponse{}, fmt.Errorf("notice content empty after sanitization: %w", ErrInvalid)
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	target := payload.Target
	if target == "" {
		target = models.TargetAll
	}

	notice := models.Notice{
		Title:    strings.TrimSpace(payload.Title),
		Content:  content,
		Priority: priority,
		Target:   target,
		AdminID:  auth.TenantID,
	}
	if err := s.repo.Create(ctx, &notice); err != nil {
		return dto.NoticeResponse{}, err
	}

	s.logger.Info().Uint("notice_id", notice.ID).Str("target", target).Str("priority", priority).Msg("notice published")

	recipients, err := s.audience(ctx, auth.TenantID, target)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve notice audience")
	} else {
		s.notifier.Notify(ctx, auth.TenantID, recipients, Event{
			Category:    models.CategoryAnnouncement,
			Title:       notice.Title,
			Message:     content,
			RelatedID:   &notice.ID,
			RelatedName: notice.Title,
			Metadata:    map[string]any{"priority": priority},
		})
	}

	return dto.NewNoticeResponse(notice), nil
}

func (s *noticeService) List(ctx context.Context, auth AuthContext, limit int) ([]dto.NoticeResponse, error) {
	var targets []string
	switch {
	case auth.IsTeacher():
		targets = []string{models.TargetAll, models.TargetTeachers}
	case auth.IsStudent():
		targets = []string{models.TargetAll, models.TargetStudents}
	}

	notices, err := s.repo.List(ctx, auth.TenantID, targets, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewNoticeResponseSlice(notices), nil
}

func (s *noticeService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	if !auth.IsAdmin() {
		return fmt.Errorf("notices are admin-only: %w", ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "notice")
	}

	s.logger.Info().Uint("notice_id", id).Msg("notice deleted")

	return nil
}

func (s *noticeService) audience(ctx context.Context, tenantID uint, target string) ([]Recipient, error) {
	var recipients []Recipient

	if target == models.TargetAll || target == models.TargetTeachers {
		teachers, err := s.teachers.ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		for _, teacher := range teachers {
			recipients = append(recipients, Recipient{Kind: models.RoleTeacher, ID: teacher.ID})
		}
	}

	if target == models.TargetAll || target == models.TargetStudents {
		students, err := s.students.ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		for _, student := range students {
			recipients = append(recipients, Recipient{Kind: models.RoleStudent, ID: student.ID})
		}
	}

	return recipients, nil
}
