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

// CourseService exposes course management and enrolment use cases. Listing
// is role-aware: admins see the whole tenant, teachers their own courses,
// students the ones they are enrolled in.
type CourseService interface {
	Create(ctx context.Context, auth AuthContext, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Get(ctx context.Context, auth AuthContext, id uint) (dto.CourseResponse, error)
	List(ctx context.Context, auth AuthContext) ([]dto.CourseResponse, error)
	Update(ctx context.Context, auth AuthContext, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
	Enroll(ctx context.Context, auth AuthContext, courseID, studentID uint) (dto.CourseResponse, error)
	Unenroll(ctx context.Context, auth AuthContext, courseID, studentID uint) (dto.CourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	notifier  Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService builds the course service.
func NewCourseService(courses repository.CourseRepository, teachers repository.TeacherRepository, students repository.StudentRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		teachers:  teachers,
		students:  students,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

func (s *courseService) Create(ctx context.Context, auth AuthContext, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if !auth.IsAdmin() {
		return dto.CourseResponse{}, fmt.Errorf("course creation is admin-only: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(payload.Code))
	taken, err := s.courses.ExistsByCode(ctx, auth.TenantID, code)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if taken {
		return dto.CourseResponse{}, fmt.Errorf("course code %s: %w", code, ErrConflict)
	}

	if _, err := s.teachers.GetByTenant(ctx, payload.TeacherID, auth.TenantID); err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "teacher")
	}

	course := models.Course{
		Name:        payload.Name,
		Code:        code,
		Description: payload.Description,
		CoursePlan:  payload.CoursePlan,
		TeacherID:   payload.TeacherID,
		AdminID:     auth.TenantID,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("code", course.Code).Msg("course created")

	s.notifier.Notify(ctx, auth.TenantID, []Recipient{{Kind: models.RoleTeacher, ID: course.TeacherID}}, Event{
		Category:    models.CategoryGeneral,
		Title:       "New course assigned",
		Message:     fmt.Sprintf("You are now teaching %s (%s).", course.Name, course.Code),
		RelatedID:   &course.ID,
		RelatedName: course.Name,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Get(ctx context.Context, auth AuthContext, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetWithStudents(ctx, id, auth.TenantID)
	if err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "course")
	}

	if err := authorizeCourseRead(auth, course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, auth AuthContext) ([]dto.CourseResponse, error) {
	var (
		courses []models.Course
		err     error
	)
	switch {
	case auth.IsTeacher():
		courses, err = s.courses.ListByTeacher(ctx, auth.TenantID, auth.PrincipalID)
	case auth.IsStudent():
		courses, err = s.courses.ListByStudent(ctx, auth.TenantID, auth.PrincipalID)
	default:
		courses, err = s.courses.ListByTenant(ctx, auth.TenantID)
	}
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Update(ctx context.Context, auth AuthContext, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "course")
	}

	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.Name != nil {
		course.Name = *payload.Name
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.CoursePlan != nil {
		course.CoursePlan = *payload.CoursePlan
	}
	if payload.TeacherID != nil && *payload.TeacherID != course.TeacherID {
		if !auth.IsAdmin() {
			return dto.CourseResponse{}, fmt.Errorf("reassigning a course is admin-only: %w", ErrForbidden)
		}
		if _, err := s.teachers.GetByTenant(ctx, *payload.TeacherID, auth.TenantID); err != nil {
			return dto.CourseResponse{}, notFoundOrInternal(err, "teacher")
		}
		course.TeacherID = *payload.TeacherID
	}

	if err := s.courses.Save(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	if !auth.IsAdmin() {
		return fmt.Errorf("course deletion is admin-only: %w", ErrForbidden)
	}

	if err := s.courses.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "course")
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")

	return nil
}

func (s *courseService) Enroll(ctx context.Context, auth AuthContext, courseID, studentID uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "course")
	}

	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.CourseResponse{}, err
	}

	student, err := s.students.GetByTenant(ctx, studentID, auth.TenantID)
	if err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "student")
	}

	if course.HasStudent(student.ID) {
		return dto.CourseResponse{}, fmt.Errorf("student %d already enrolled: %w", student.ID, ErrConflict)
	}

	if err := s.courses.AddStudent(ctx, &course, student); err != nil {
		return dto.CourseResponse{}, err
	}
	course.Students = append(course.Students, student)

	s.logger.Info().Uint("course_id", course.ID).Uint("student_id", student.ID).Msg("student enrolled")

	s.notifier.Notify(ctx, auth.TenantID, []Recipient{{Kind: models.RoleStudent, ID: student.ID}}, Event{
		Category:    models.CategoryGeneral,
		Title:       "Enrolled in course",
		Message:     fmt.Sprintf("You have been enrolled in %s (%s).", course.Name, course.Code),
		RelatedID:   &course.ID,
		RelatedName: course.Name,
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Unenroll(ctx context.Context, auth AuthContext, courseID, studentID uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "course")
	}

	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.CourseResponse{}, err
	}

	if !course.HasStudent(studentID) {
		return dto.CourseResponse{}, fmt.Errorf("student %d not enrolled: %w", studentID, ErrNotFound)
	}

	student, err := s.students.GetByTenant(ctx, studentID, auth.TenantID)
	if err != nil {
		return dto.CourseResponse{}, notFoundOrInternal(err, "student")
	}

	if err := s.courses.RemoveStudent(ctx, &course, student); err != nil {
		return dto.CourseResponse{}, err
	}

	remaining := course.Students[:0]
	for _, enrolled := range course.Students {
		if enrolled.ID != studentID {
			remaining = append(remaining, enrolled)
		}
	}
	course.Students = remaining

	s.logger.Info().Uint("course_id", course.ID).Uint("student_id", studentID).Msg("student unenrolled")

	return dto.NewCourseResponse(course), nil
}

