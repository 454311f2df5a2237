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

// AssignmentService exposes assignment management. Creating an assignment
// fans a notification out to every enrolled student.
type AssignmentService interface {
	Create(ctx context.Context, auth AuthContext, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, auth AuthContext, id uint) (dto.AssignmentResponse, error)
	List(ctx context.Context, auth AuthContext, courseID uint) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, auth AuthContext, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	courses   repository.CourseRepository
	notifier  Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssignmentService builds the assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, courses repository.CourseRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		courses:   courses,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		now:       time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, auth AuthContext, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", ErrInvalid)
	}
	if !dueDate.After(s.now()) {
		return dto.AssignmentResponse{}, fmt.Errorf("due date must be in the future: %w", ErrInvalid)
	}

	course, err := s.courses.GetWithStudents(ctx, payload.CourseID, auth.TenantID)
	if err != nil {
		return dto.AssignmentResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.AssignmentResponse{}, err
	}

	totalMarks := payload.TotalMarks
	if totalMarks <= 0 {
		totalMarks = 100
	}

	assignment := models.Assignment{
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     dueDate,
		TotalMarks:  totalMarks,
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		AdminID:     auth.TenantID,
	}
	if err := s.repo.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", course.ID).Msg("assignment created")

	s.notifier.Notify(ctx, auth.TenantID, enrolledRecipients(course), Event{
		Category:    models.CategoryAssignment,
		Title:       "New assignment",
		Message:     fmt.Sprintf("%s was posted in %s, due %s.", assignment.Title, course.Name, dueDate.Format(time.RFC1123)),
		RelatedID:   &assignment.ID,
		RelatedName: assignment.Title,
		Metadata:    map[string]any{"course_id": course.ID, "due_date": dueDate},
	})

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Get(ctx context.Context, auth AuthContext, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.AssignmentResponse{}, notFoundOrInternal(err, "assignment")
	}

	if err := s.authorizeItem(ctx, auth, assignment.CourseID); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) List(ctx context.Context, auth AuthContext, courseID uint) ([]dto.AssignmentResponse, error) {
	if courseID != 0 {
		if err := s.authorizeItem(ctx, auth, courseID); err != nil {
			return nil, err
		}
		assignments, err := s.repo.List(ctx, auth.TenantID, repository.AssignmentFilter{CourseID: courseID})
		if err != nil {
			return nil, err
		}
		return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
	}

	switch {
	case auth.IsTeacher():
		assignments, err := s.repo.List(ctx, auth.TenantID, repository.AssignmentFilter{TeacherID: auth.PrincipalID})
		if err != nil {
			return nil, err
		}
		return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
	case auth.IsStudent():
		courses, err := s.courses.ListByStudent(ctx, auth.TenantID, auth.PrincipalID)
		if err != nil {
			return nil, err
		}
		var all []models.Assignment
		for _, course := range courses {
			assignments, err := s.repo.List(ctx, auth.TenantID, repository.AssignmentFilter{CourseID: course.ID})
			if err != nil {
				return nil, err
			}
			all = append(all, assignments...)
		}
		return dto.NewAssignmentResponseSlice(all, s.now()), nil
	default:
		assignments, err := s.repo.List(ctx, auth.TenantID, repository.AssignmentFilter{})
		if err != nil {
			return nil, err
		}
		return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
	}
}

func (s *assignmentService) Update(ctx context.Context, auth AuthContext, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.AssignmentResponse{}, notFoundOrInternal(err, "assignment")
	}

	course, err := s.courses.GetByID(ctx, assignment.CourseID, auth.TenantID)
	if err != nil {
		return dto.AssignmentResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", ErrInvalid)
		}
		assignment.DueDate = dueDate
	}
	if payload.TotalMarks != nil {
		assignment.TotalMarks = *payload.TotalMarks
	}

	if err := s.repo.Save(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	assignment, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "assignment")
	}

	course, err := s.courses.GetByID(ctx, assignment.CourseID, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "assignment")
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	return nil
}

// authorizeItem checks the caller may read coursework attached to courseID.
func (s *assignmentService) authorizeItem(ctx context.Context, auth AuthContext, courseID uint) error {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "course")
	}
	return authorizeCourseRead(auth, course)
}
