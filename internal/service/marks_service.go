package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// MarksService exposes grading. Upsert semantics mean re-grading the same
// student on the same item overwrites the earlier grade.
type MarksService interface {
	Upsert(ctx context.Context, auth AuthContext, payload dto.MarksUpsertRequest) (dto.MarksResponse, error)
	ListByItem(ctx context.Context, auth AuthContext, itemType string, itemID uint) ([]dto.MarksResponse, error)
	ListByCourse(ctx context.Context, auth AuthContext, courseID uint) ([]dto.MarksResponse, error)
	ListMine(ctx context.Context, auth AuthContext) ([]dto.MarksResponse, error)
}

type marksService struct {
	repo        repository.MarksRepository
	assignments repository.AssignmentRepository
	tests       repository.TestRepository
	courses     repository.CourseRepository
	students    repository.StudentRepository
	notifier    Notifier
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMarksService builds the marks service.
func NewMarksService(repo repository.MarksRepository, assignments repository.AssignmentRepository, tests repository.TestRepository, courses repository.CourseRepository, students repository.StudentRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) MarksService {
	return &marksService{
		repo:        repo,
		assignments: assignments,
		tests:       tests,
		courses:     courses,
		students:    students,
		notifier:    notifier,
		validator:   validate,
		logger:      logger.With().Str("component", "marks_service").Logger(),
		now:         time.Now,
	}
}

func (s *marksService) Upsert(ctx context.Context, auth AuthContext, payload dto.MarksUpsertRequest) (dto.MarksResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MarksResponse{}, err
	}
	if payload.Score > payload.MaxScore {
		return dto.MarksResponse{}, fmt.Errorf("score exceeds max score: %w", ErrInvalid)
	}

	courseID, itemTitle, err := s.resolveItem(ctx, auth, payload.ItemType, payload.ItemID)
	if err != nil {
		return dto.MarksResponse{}, err
	}

	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.MarksResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.MarksResponse{}, err
	}
	if !course.HasStudent(payload.StudentID) {
		return dto.MarksResponse{}, fmt.Errorf("student %d not enrolled: %w", payload.StudentID, ErrNotFound)
	}

	grade := models.Marks{
		ItemType:  payload.ItemType,
		ItemID:    payload.ItemID,
		StudentID: payload.StudentID,
		TeacherID: auth.PrincipalID,
		CourseID:  courseID,
		AdminID:   auth.TenantID,
		Score:     payload.Score,
		MaxScore:  payload.MaxScore,
		Remarks:   payload.Remarks,
	}
	if err := s.repo.Upsert(ctx, &grade); err != nil {
		return dto.MarksResponse{}, err
	}

	s.logger.Info().
		Str("item_type", payload.ItemType).
		Uint("item_id", payload.ItemID).
		Uint("student_id", payload.StudentID).
		Float64("score", payload.Score).
		Msg("marks recorded")

	s.notifier.Notify(ctx, auth.TenantID, []Recipient{{Kind: models.RoleStudent, ID: payload.StudentID}}, Event{
		Category:    models.CategoryGrade,
		Title:       "Work graded",
		Message:     fmt.Sprintf("You scored %.1f out of %.1f on %s.", payload.Score, payload.MaxScore, itemTitle),
		RelatedID:   &payload.ItemID,
		RelatedName: itemTitle,
		Metadata:    map[string]any{"item_type": payload.ItemType, "score": payload.Score, "max_score": payload.MaxScore},
	})

	stored, err := s.repo.GetByKey(ctx, auth.TenantID, payload.ItemType, payload.ItemID, payload.StudentID)
	if err != nil {
		return dto.NewMarksResponse(grade), nil
	}

	return dto.NewMarksResponse(stored), nil
}

func (s *marksService) ListByItem(ctx context.Context, auth AuthContext, itemType string, itemID uint) ([]dto.MarksResponse, error) {
	if !models.IsValidItemType(itemType) {
		return nil, fmt.Errorf("unknown item type %q: %w", itemType, ErrInvalid)
	}

	courseID, _, err := s.resolveItem(ctx, auth, itemType, itemID)
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

	marks, err := s.repo.List(ctx, auth.TenantID, repository.MarksFilter{ItemType: itemType, ItemID: itemID})
	if err != nil {
		return nil, err
	}

	return dto.NewMarksResponseSlice(marks), nil
}

func (s *marksService) ListByCourse(ctx context.Context, auth AuthContext, courseID uint) ([]dto.MarksResponse, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseRead(auth, course); err != nil {
		return nil, err
	}

	filter := repository.MarksFilter{CourseID: courseID}
	if auth.IsStudent() {
		filter.StudentID = auth.PrincipalID
	}

	marks, err := s.repo.List(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewMarksResponseSlice(marks), nil
}

func (s *marksService) ListMine(ctx context.Context, auth AuthContext) ([]dto.MarksResponse, error) {
	if !auth.IsStudent() {
		return nil, fmt.Errorf("listing own marks is student-only: %w", ErrForbidden)
	}

	marks, err := s.repo.List(ctx, auth.TenantID, repository.MarksFilter{StudentID: auth.PrincipalID})
	if err != nil {
		return nil, err
	}

	return dto.NewMarksResponseSlice(marks), nil
}

func (s *marksService) resolveItem(ctx context.Context, auth AuthContext, itemType string, itemID uint) (courseID uint, title string, err error) {
	switch itemType {
	case models.ItemTypeAssignment:
		assignment, err := s.assignments.GetByID(ctx, itemID, auth.TenantID)
		if err != nil {
			return 0, "", notFoundOrInternal(err, "assignment")
		}
		return assignment.CourseID, assignment.Title, nil
	case models.ItemTypeTest:
		test, err := s.tests.GetByID(ctx, itemID, auth.TenantID)
		if err != nil {
			return 0, "", notFoundOrInternal(err, "test")
		}
		return test.CourseID, test.Title, nil
	default:
		return 0, "", fmt.Errorf("unknown item type %q: %w", itemType, ErrInvalid)
	}
}
