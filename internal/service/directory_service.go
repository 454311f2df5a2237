package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/auth"
	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// DirectoryService manages the tenant's teacher and student accounts.
// Only the tenant admin may mutate the directory; the caller's role is
// enforced at the routing layer and re-checked here.
type DirectoryService interface {
	CreateTeacher(ctx context.Context, auth AuthContext, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	ListTeachers(ctx context.Context, auth AuthContext) ([]dto.TeacherResponse, error)
	GetTeacher(ctx context.Context, auth AuthContext, id uint) (dto.TeacherResponse, error)
	DeleteTeacher(ctx context.Context, auth AuthContext, id uint) error
	CreateStudent(ctx context.Context, auth AuthContext, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	ListStudents(ctx context.Context, auth AuthContext) ([]dto.StudentResponse, error)
	GetStudent(ctx context.Context, auth AuthContext, id uint) (dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, auth AuthContext, id uint) error
}

type directoryService struct {
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDirectoryService builds the directory service.
func NewDirectoryService(teachers repository.TeacherRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) DirectoryService {
	return &directoryService{
		teachers:  teachers,
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "directory_service").Logger(),
		now:       time.Now,
	}
}

func (s *directoryService) CreateTeacher(ctx context.Context, ac AuthContext, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if !ac.IsAdmin() {
		return dto.TeacherResponse{}, fmt.Errorf("directory is admin-only: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	email := normalizeEmail(payload.Email)
	if _, err := s.teachers.GetByEmail(ctx, email); err == nil {
		return dto.TeacherResponse{}, fmt.Errorf("email %s: %w", email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TeacherResponse{}, err
	}

	if payload.CollegeID != "" {
		taken, err := s.teachers.ExistsByCollegeID(ctx, ac.TenantID, payload.CollegeID)
		if err != nil {
			return dto.TeacherResponse{}, err
		}
		if taken {
			return dto.TeacherResponse{}, fmt.Errorf("college id %s: %w", payload.CollegeID, ErrConflict)
		}
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return dto.TeacherResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	teacher := models.Teacher{
		Name:         payload.Name,
		Email:        email,
		PasswordHash: hash,
		CollegeID:    payload.CollegeID,
		AdminID:      ac.TenantID,
	}
	if err := s.teachers.Create(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Uint("tenant_id", ac.TenantID).Msg("teacher account created")

	return dto.NewTeacherResponse(teacher), nil
}

func (s *directoryService) ListTeachers(ctx context.Context, ac AuthContext) ([]dto.TeacherResponse, error) {
	teachers, err := s.teachers.ListByTenant(ctx, ac.TenantID)
	if err != nil {
		return nil, err
	}

	return dto.NewTeacherResponseSlice(teachers), nil
}

func (s *directoryService) GetTeacher(ctx context.Context, ac AuthContext, id uint) (dto.TeacherResponse, error) {
	teacher, err := s.teachers.GetByTenant(ctx, id, ac.TenantID)
	if err != nil {
		return dto.TeacherResponse{}, notFoundOrInternal(err, "teacher")
	}

	return dto.NewTeacherResponse(teacher), nil
}

func (s *directoryService) DeleteTeacher(ctx context.Context, ac AuthContext, id uint) error {
	if !ac.IsAdmin() {
		return fmt.Errorf("directory is admin-only: %w", ErrForbidden)
	}

	if err := s.teachers.Delete(ctx, id, ac.TenantID); err != nil {
		return notFoundOrInternal(err, "teacher")
	}

	s.logger.Info().Uint("teacher_id", id).Uint("tenant_id", ac.TenantID).Msg("teacher account removed")

	return nil
}

func (s *directoryService) CreateStudent(ctx context.Context, ac AuthContext, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if !ac.IsAdmin() {
		return dto.StudentResponse{}, fmt.Errorf("directory is admin-only: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	email := normalizeEmail(payload.Email)
	if _, err := s.students.GetByEmail(ctx, email); err == nil {
		return dto.StudentResponse{}, fmt.Errorf("email %s: %w", email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	if payload.CollegeID != "" {
		taken, err := s.students.ExistsByCollegeID(ctx, ac.TenantID, payload.CollegeID)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		if taken {
			return dto.StudentResponse{}, fmt.Errorf("college id %s: %w", payload.CollegeID, ErrConflict)
		}
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	student := models.Student{
		Name:         payload.Name,
		Email:        email,
		PasswordHash: hash,
		CollegeID:    payload.CollegeID,
		AdminID:      ac.TenantID,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Uint("tenant_id", ac.TenantID).Msg("student account created")

	return dto.NewStudentResponse(student), nil
}

func (s *directoryService) ListStudents(ctx context.Context, ac AuthContext) ([]dto.StudentResponse, error) {
	students, err := s.students.ListByTenant(ctx, ac.TenantID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *directoryService) GetStudent(ctx context.Context, ac AuthContext, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByTenant(ctx, id, ac.TenantID)
	if err != nil {
		return dto.StudentResponse{}, notFoundOrInternal(err, "student")
	}

	return dto.NewStudentResponse(student), nil
}

func (s *directoryService) DeleteStudent(ctx context.Context, ac AuthContext, id uint) error {
	if !ac.IsAdmin() {
		return fmt.Errorf("directory is admin-only: %w", ErrForbidden)
	}

	if err := s.students.Delete(ctx, id, ac.TenantID); err != nil {
		return notFoundOrInternal(err, "student")
	}

	s.logger.Info().Uint("student_id", id).Uint("tenant_id", ac.TenantID).Msg("student account removed")

	return nil
}
