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

// DiscussionService exposes the per-course message board. Anyone with read
// access to the course may post; authors and admins may delete.
type DiscussionService interface {
	Post(ctx context.Context, auth AuthContext, courseID uint, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error)
	ListByCourse(ctx context.Context, auth AuthContext, courseID uint, limit int) ([]dto.DiscussionResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
}

type discussionService struct {
	repo      repository.DiscussionRepository
	courses   repository.CourseRepository
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	admins    repository.AdminRepository
	sanitizer *bluemonday.Policy
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDiscussionService builds the discussion service.
func NewDiscussionService(repo repository.DiscussionRepository, courses repository.CourseRepository, teachers repository.TeacherRepository, students repository.StudentRepository, admins repository.AdminRepository, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	return &discussionService{
		repo:      repo,
		courses:   courses,
		teachers:  teachers,
		students:  students,
		admins:    admins,
		sanitizer: bluemonday.StrictPolicy(),
		validator: validate,
		logger:    logger.With().Str("component", "discussion_service").Logger(),
		now:       time.Now,
	}
}

func (s *discussionService) Post(ctx context.Context, auth AuthContext, courseID uint, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if message == "" {
		return dto.DiscussionResponse{}, fmt.Errorf("message empty after sanitization: %w", ErrInvalid)
	}

	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.DiscussionResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseRead(auth, course); err != nil {
		return dto.DiscussionResponse{}, err
	}

	authorName, err := s.authorName(ctx, auth)
	if err != nil {
		return dto.DiscussionResponse{}, err
	}

	discussion := models.Discussion{
		CourseID:   course.ID,
		AdminID:    auth.TenantID,
		Message:    message,
		AuthorID:   auth.PrincipalID,
		AuthorName: authorName,
		AuthorRole: auth.Role,
	}
	if err := s.repo.Create(ctx, &discussion); err != nil {
		return dto.DiscussionResponse{}, err
	}

	return dto.NewDiscussionResponse(discussion), nil
}

func (s *discussionService) ListByCourse(ctx context.Context, auth AuthContext, courseID uint, limit int) ([]dto.DiscussionResponse, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseRead(auth, course); err != nil {
		return nil, err
	}

	discussions, err := s.repo.ListByCourse(ctx, auth.TenantID, courseID, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewDiscussionResponseSlice(discussions), nil
}

func (s *discussionService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	discussion, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "message")
	}

	if !auth.IsAdmin() && !(discussion.AuthorID == auth.PrincipalID && discussion.AuthorRole == auth.Role) {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "message")
	}

	s.logger.Info().Uint("discussion_id", id).Msg("message deleted")

	return nil
}

func (s *discussionService) authorName(ctx context.Context, auth AuthContext) (string, error) {
	switch auth.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return "", staleOrInternal(err)
		}
		return admin.Name, nil
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return "", staleOrInternal(err)
		}
		return teacher.Name, nil
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return "", staleOrInternal(err)
		}
		return student.Name, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", auth.Role, ErrForbidden)
	}
}
