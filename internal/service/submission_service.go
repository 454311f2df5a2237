package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// SubmissionService exposes the hand-in flow for assignments and tests.
// A student re-submitting the same item replaces the previous submission.
type SubmissionService interface {
	Submit(ctx context.Context, auth AuthContext, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListByItem(ctx context.Context, auth AuthContext, itemType string, itemID uint) ([]dto.SubmissionResponse, error)
	ListMine(ctx context.Context, auth AuthContext) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	repo        repository.SubmissionRepository
	assignments repository.AssignmentRepository
	tests       repository.TestRepository
	courses     repository.CourseRepository
	notifier    Notifier
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService builds the submission service.
func NewSubmissionService(repo repository.SubmissionRepository, assignments repository.AssignmentRepository, tests repository.TestRepository, courses repository.CourseRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:        repo,
		assignments: assignments,
		tests:       tests,
		courses:     courses,
		notifier:    notifier,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, auth AuthContext, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if !auth.IsStudent() {
		return dto.SubmissionResponse{}, fmt.Errorf("only students submit work: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if strings.TrimSpace(payload.FileURL) == "" && strings.TrimSpace(payload.Text) == "" && strings.TrimSpace(payload.Link) == "" {
		return dto.SubmissionResponse{}, fmt.Errorf("submission needs a file, text or link: %w", ErrInvalid)
	}

	courseID, teacherID, itemTitle, err := s.resolveItem(ctx, auth, payload.ItemType, payload.ItemID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.SubmissionResponse{}, notFoundOrInternal(err, "course")
	}
	if !course.HasStudent(auth.PrincipalID) {
		return dto.SubmissionResponse{}, fmt.Errorf("%s %d: %w", payload.ItemType, payload.ItemID, ErrNotFound)
	}

	submission := models.Submission{
		ItemType:  payload.ItemType,
		ItemID:    payload.ItemID,
		StudentID: auth.PrincipalID,
		CourseID:  courseID,
		AdminID:   auth.TenantID,
		FileURL:   payload.FileURL,
		Text:      payload.Text,
		Link:      payload.Link,
	}
	if err := s.repo.Upsert(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Str("item_type", payload.ItemType).
		Uint("item_id", payload.ItemID).
		Uint("student_id", auth.PrincipalID).
		Msg("submission stored")

	s.notifier.Notify(ctx, auth.TenantID, []Recipient{{Kind: models.RoleTeacher, ID: teacherID}}, Event{
		Category:    models.CategorySubmission,
		Title:       "New submission",
		Message:     fmt.Sprintf("A student handed in work for %s.", itemTitle),
		RelatedID:   &payload.ItemID,
		RelatedName: itemTitle,
		Metadata:    map[string]any{"item_type": payload.ItemType, "student_id": auth.PrincipalID},
	})

	stored, err := s.repo.GetByKey(ctx, auth.TenantID, payload.ItemType, payload.ItemID, auth.PrincipalID)
	if err != nil {
		return dto.NewSubmissionResponse(submission), nil
	}

	return dto.NewSubmissionResponse(stored), nil
}

func (s *submissionService) ListByItem(ctx context.Context, auth AuthContext, itemType string, itemID uint) ([]dto.SubmissionResponse, error) {
	if !models.IsValidItemType(itemType) {
		return nil, fmt.Errorf("unknown item type %q: %w", itemType, ErrInvalid)
	}

	courseID, _, _, err := s.resolveItem(ctx, auth, itemType, itemID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID, auth.TenantID)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return nil, err
	}

	submissions, err := s.repo.ListByItem(ctx, auth.TenantID, itemType, itemID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListMine(ctx context.Context, auth AuthContext) ([]dto.SubmissionResponse, error) {
	if !auth.IsStudent() {
		return nil, fmt.Errorf("listing own submissions is student-only: %w", ErrForbidden)
	}

	submissions, err := s.repo.ListByStudent(ctx, auth.TenantID, auth.PrincipalID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) resolveItem(ctx context.Context, auth AuthContext, itemType string, itemID uint) (courseID, teacherID uint, title string, err error) {
	switch itemType {
	case models.ItemTypeAssignment:
		assignment, err := s.assignments.GetByID(ctx, itemID, auth.TenantID)
		if err != nil {
			return 0, 0, "", notFoundOrInternal(err, "assignment")
		}
		return assignment.CourseID, assignment.TeacherID, assignment.Title, nil
	case models.ItemTypeTest:
		test, err := s.tests.GetByID(ctx, itemID, auth.TenantID)
		if err != nil {
			return 0, 0, "", notFoundOrInternal(err, "test")
		}
		return test.CourseID, test.TeacherID, test.Title, nil
	default:
		return 0, 0, "", fmt.Errorf("unknown item type %q: %w", itemType, ErrInvalid)
	}
}
