package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// AuthContext is the resolved identity every tenant-scoped operation
// receives: who is asking, in what role, and which tenant bounds all of
// their queries.
type AuthContext struct {
	PrincipalID uint
	Role        string
	TenantID    uint
}

// IsAdmin reports whether the principal is the tenant admin.
func (a AuthContext) IsAdmin() bool { return a.Role == models.RoleAdmin }

// IsTeacher reports whether the principal is a teacher.
func (a AuthContext) IsTeacher() bool { return a.Role == models.RoleTeacher }

// IsStudent reports whether the principal is a student.
func (a AuthContext) IsStudent() bool { return a.Role == models.RoleStudent }

// TenantService resolves the owning tenant for an authenticated principal.
// Admins are their own tenant; teachers and students carry a tenant
// reference on their record. A principal whose record no longer exists
// holds a stale token and is rejected as unauthorized.
type TenantService interface {
	Resolve(ctx context.Context, principalID uint, role string) (AuthContext, error)
}

type tenantService struct {
	teachers repository.TeacherRepository
	students repository.StudentRepository
}

// NewTenantService builds the tenant resolver.
func NewTenantService(teachers repository.TeacherRepository, students repository.StudentRepository) TenantService {
	return &tenantService{teachers: teachers, students: students}
}

func (s *tenantService) Resolve(ctx context.Context, principalID uint, role string) (AuthContext, error) {
	switch role {
	case models.RoleAdmin:
		return AuthContext{PrincipalID: principalID, Role: role, TenantID: principalID}, nil
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, principalID)
		if err != nil {
			return AuthContext{}, staleOrInternal(err)
		}
		return AuthContext{PrincipalID: principalID, Role: role, TenantID: teacher.AdminID}, nil
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, principalID)
		if err != nil {
			return AuthContext{}, staleOrInternal(err)
		}
		return AuthContext{PrincipalID: principalID, Role: role, TenantID: student.AdminID}, nil
	default:
		return AuthContext{}, fmt.Errorf("unknown role %q: %w", role, ErrForbidden)
	}
}

func staleOrInternal(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("principal record missing: %w", ErrUnauthorized)
	}
	return err
}
