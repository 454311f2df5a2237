package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/auth"
	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
	"github.com/noah-isme/campus-go-api/pkg/mail"
)

const passwordResetValidity = time.Hour

// AuthService covers registration, credential login for all roles, token
// rotation and the password lifecycle.
type AuthService interface {
	RegisterAdmin(ctx context.Context, payload dto.AdminRegisterRequest) (dto.LoginResponse, error)
	RegisterPrincipal(ctx context.Context, role string, payload dto.PrincipalRegisterRequest) (dto.LoginResponse, error)
	Login(ctx context.Context, role string, payload dto.LoginRequest) (dto.LoginResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenPairResponse, error)
	Logout(ctx context.Context, auth AuthContext) error
	Profile(ctx context.Context, auth AuthContext) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, auth AuthContext, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, auth AuthContext, payload dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error
}

type authService struct {
	admins    repository.AdminRepository
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	tokens    *auth.Manager
	mailer    mail.Sender
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds the authentication service.
func NewAuthService(admins repository.AdminRepository, teachers repository.TeacherRepository, students repository.StudentRepository, tokens *auth.Manager, mailer mail.Sender, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		admins:    admins,
		teachers:  teachers,
		students:  students,
		tokens:    tokens,
		mailer:    mailer,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) RegisterAdmin(ctx context.Context, payload dto.AdminRegisterRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	email := normalizeEmail(payload.Email)
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return dto.LoginResponse{}, fmt.Errorf("email %s: %w", email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.LoginResponse{}, err
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.Admin{
		Name:         payload.Name,
		Institution:  payload.Institution,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, &admin); err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("admin_id", admin.ID).Msg("tenant registered")

	tokens, err := s.issueAndStore(ctx, auth.Principal{ID: admin.ID, Role: models.RoleAdmin, TenantID: admin.ID})
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{Tokens: tokens, Profile: dto.NewAdminProfile(admin)}, nil
}

// RegisterPrincipal creates a teacher or student account under an existing
// tenant. The institution-local college id must be unique within the
// tenant; the same id under another tenant is fine.
func (s *authService) RegisterPrincipal(ctx context.Context, role string, payload dto.PrincipalRegisterRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	if _, err := s.admins.GetByID(ctx, payload.AdminID); err != nil {
		return dto.LoginResponse{}, notFoundOrInternal(err, "tenant")
	}

	email := normalizeEmail(payload.Email)
	hash, err := hashPassword(payload.Password)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	switch role {
	case models.RoleTeacher:
		if _, err := s.teachers.GetByEmail(ctx, email); err == nil {
			return dto.LoginResponse{}, fmt.Errorf("email %s: %w", email, ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, err
		}
		if payload.CollegeID != "" {
			taken, err := s.teachers.ExistsByCollegeID(ctx, payload.AdminID, payload.CollegeID)
			if err != nil {
				return dto.LoginResponse{}, err
			}
			if taken {
				return dto.LoginResponse{}, fmt.Errorf("college id %s: %w", payload.CollegeID, ErrConflict)
			}
		}

		teacher := models.Teacher{
			Name:         payload.Name,
			Email:        email,
			PasswordHash: hash,
			CollegeID:    payload.CollegeID,
			AdminID:      payload.AdminID,
		}
		if err := s.teachers.Create(ctx, &teacher); err != nil {
			return dto.LoginResponse{}, err
		}

		s.logger.Info().Uint("teacher_id", teacher.ID).Uint("tenant_id", teacher.AdminID).Msg("teacher self-registered")

		tokens, err := s.issueAndStore(ctx, auth.Principal{ID: teacher.ID, Role: role, TenantID: teacher.AdminID})
		if err != nil {
			return dto.LoginResponse{}, err
		}
		return dto.LoginResponse{Tokens: tokens, Profile: dto.NewTeacherProfile(teacher)}, nil

	case models.RoleStudent:
		if _, err := s.students.GetByEmail(ctx, email); err == nil {
			return dto.LoginResponse{}, fmt.Errorf("email %s: %w", email, ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, err
		}
		if payload.CollegeID != "" {
			taken, err := s.students.ExistsByCollegeID(ctx, payload.AdminID, payload.CollegeID)
			if err != nil {
				return dto.LoginResponse{}, err
			}
			if taken {
				return dto.LoginResponse{}, fmt.Errorf("college id %s: %w", payload.CollegeID, ErrConflict)
			}
		}

		student := models.Student{
			Name:         payload.Name,
			Email:        email,
			PasswordHash: hash,
			CollegeID:    payload.CollegeID,
			AdminID:      payload.AdminID,
		}
		if err := s.students.Create(ctx, &student); err != nil {
			return dto.LoginResponse{}, err
		}

		s.logger.Info().Uint("student_id", student.ID).Uint("tenant_id", student.AdminID).Msg("student self-registered")

		tokens, err := s.issueAndStore(ctx, auth.Principal{ID: student.ID, Role: role, TenantID: student.AdminID})
		if err != nil {
			return dto.LoginResponse{}, err
		}
		return dto.LoginResponse{Tokens: tokens, Profile: dto.NewStudentProfile(student)}, nil

	default:
		return dto.LoginResponse{}, fmt.Errorf("unknown role %q: %w", role, ErrInvalid)
	}
}

func (s *authService) Login(ctx context.Context, role string, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	email := normalizeEmail(payload.Email)

	switch role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return dto.LoginResponse{}, loginFailure(err)
		}
		if !auth.CheckPassword(admin.PasswordHash, payload.Password) {
			return dto.LoginResponse{}, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		tokens, err := s.issueAndStore(ctx, auth.Principal{ID: admin.ID, Role: role, TenantID: admin.ID})
		if err != nil {
			return dto.LoginResponse{}, err
		}
		return dto.LoginResponse{Tokens: tokens, Profile: dto.NewAdminProfile(admin)}, nil

	case models.RoleTeacher:
		teacher, err := s.teachers.GetByEmail(ctx, email)
		if err != nil {
			return dto.LoginResponse{}, loginFailure(err)
		}
		if !auth.CheckPassword(teacher.PasswordHash, payload.Password) {
			return dto.LoginResponse{}, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		tokens, err := s.issueAndStore(ctx, auth.Principal{ID: teacher.ID, Role: role, TenantID: teacher.AdminID})
		if err != nil {
			return dto.LoginResponse{}, err
		}
		return dto.LoginResponse{Tokens: tokens, Profile: dto.NewTeacherProfile(teacher)}, nil

	case models.RoleStudent:
		student, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return dto.LoginResponse{}, loginFailure(err)
		}
		if !auth.CheckPassword(student.PasswordHash, payload.Password) {
			return dto.LoginResponse{}, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		tokens, err := s.issueAndStore(ctx, auth.Principal{ID: student.ID, Role: role, TenantID: student.AdminID})
		if err != nil {
			return dto.LoginResponse{}, err
		}
		return dto.LoginResponse{Tokens: tokens, Profile: dto.NewStudentProfile(student)}, nil

	default:
		return dto.LoginResponse{}, fmt.Errorf("unknown role %q: %w", role, ErrInvalid)
	}
}

// Refresh rotates the token pair. The presented refresh token must match
// the one stored on the principal record; a mismatch means the token was
// already rotated or revoked, and the session is rejected.
func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenPairResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenPairResponse{}, err
	}

	principal, err := s.tokens.ParseRefreshToken(payload.RefreshToken)
	if err != nil {
		return dto.TokenPairResponse{}, fmt.Errorf("refresh token rejected: %w", ErrUnauthorized)
	}

	stored, err := s.storedRefreshToken(ctx, principal)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}
	if stored == "" || stored != payload.RefreshToken {
		s.logger.Warn().Uint("principal_id", principal.ID).Str("role", principal.Role).Msg("refresh token reuse detected")
		return dto.TokenPairResponse{}, fmt.Errorf("refresh token revoked: %w", ErrUnauthorized)
	}

	return s.issueAndStore(ctx, principal)
}

func (s *authService) Logout(ctx context.Context, auth AuthContext) error {
	return s.setRefreshToken(ctx, auth.PrincipalID, auth.Role, "")
}

func (s *authService) Profile(ctx context.Context, auth AuthContext) (dto.ProfileResponse, error) {
	switch auth.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return dto.ProfileResponse{}, notFoundOrInternal(err, "profile")
		}
		return dto.NewAdminProfile(admin), nil
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return dto.ProfileResponse{}, notFoundOrInternal(err, "profile")
		}
		return dto.NewTeacherProfile(teacher), nil
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return dto.ProfileResponse{}, notFoundOrInternal(err, "profile")
		}
		return dto.NewStudentProfile(student), nil
	default:
		return dto.ProfileResponse{}, fmt.Errorf("unknown role %q: %w", auth.Role, ErrForbidden)
	}
}

func (s *authService) UpdateProfile(ctx context.Context, auth AuthContext, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	switch auth.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return dto.ProfileResponse{}, notFoundOrInternal(err, "profile")
		}
		admin.Name = payload.Name
		if err := s.admins.Save(ctx, &admin); err != nil {
			return dto.ProfileResponse{}, err
		}
		return dto.NewAdminProfile(admin), nil
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return dto.ProfileResponse{}, notFoundOrInternal(err, "profile")
		}
		teacher.Name = payload.Name
		if err := s.teachers.Save(ctx, &teacher); err != nil {
			return dto.ProfileResponse{}, err
		}
		return dto.NewTeacherProfile(teacher), nil
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return dto.ProfileResponse{}, notFoundOrInternal(err, "profile")
		}
		student.Name = payload.Name
		if err := s.students.Save(ctx, &student); err != nil {
			return dto.ProfileResponse{}, err
		}
		return dto.NewStudentProfile(student), nil
	default:
		return dto.ProfileResponse{}, fmt.Errorf("unknown role %q: %w", auth.Role, ErrForbidden)
	}
}

func (s *authService) ChangePassword(ctx context.Context, auth AuthContext, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	hash, err := hashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	switch auth.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return notFoundOrInternal(err, "profile")
		}
		if !checkPassword(admin.PasswordHash, payload.CurrentPassword) {
			return fmt.Errorf("current password mismatch: %w", ErrUnauthorized)
		}
		admin.PasswordHash = hash
		admin.RefreshToken = ""
		return s.admins.Save(ctx, &admin)
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return notFoundOrInternal(err, "profile")
		}
		if !checkPassword(teacher.PasswordHash, payload.CurrentPassword) {
			return fmt.Errorf("current password mismatch: %w", ErrUnauthorized)
		}
		teacher.PasswordHash = hash
		teacher.RefreshToken = ""
		return s.teachers.Save(ctx, &teacher)
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, auth.PrincipalID)
		if err != nil {
			return notFoundOrInternal(err, "profile")
		}
		if !checkPassword(student.PasswordHash, payload.CurrentPassword) {
			return fmt.Errorf("current password mismatch: %w", ErrUnauthorized)
		}
		student.PasswordHash = hash
		student.RefreshToken = ""
		return s.students.Save(ctx, &student)
	default:
		return fmt.Errorf("unknown role %q: %w", auth.Role, ErrForbidden)
	}
}

// ForgotPassword always reports success for a well-formed request so the
// endpoint cannot be used to probe which addresses exist.
func (s *authService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	email := normalizeEmail(payload.Email)
	token := uuid.NewString()
	until := s.now().Add(passwordResetValidity)

	var recipient string
	switch payload.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return swallowUnknownEmail(err)
		}
		admin.PasswordResetToken = token
		admin.PasswordResetUntil = &until
		if err := s.admins.Save(ctx, &admin); err != nil {
			return err
		}
		recipient = admin.Email
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByEmail(ctx, email)
		if err != nil {
			return swallowUnknownEmail(err)
		}
		teacher.PasswordResetToken = token
		teacher.PasswordResetUntil = &until
		if err := s.teachers.Save(ctx, &teacher); err != nil {
			return err
		}
		recipient = teacher.Email
	case models.RoleStudent:
		student, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return swallowUnknownEmail(err)
		}
		student.PasswordResetToken = token
		student.PasswordResetUntil = &until
		if err := s.students.Save(ctx, &student); err != nil {
			return err
		}
		recipient = student.Email
	default:
		return fmt.Errorf("unknown role %q: %w", payload.Role, ErrInvalid)
	}

	message := mail.Message{
		To:      recipient,
		Subject: "Password reset",
		Body:    fmt.Sprintf("Use this token to reset your password within the next hour: %s", token),
	}
	if err := s.mailer.Send(ctx, message); err != nil {
		s.logger.Error().Err(err).Msg("failed to send password reset mail")
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	hash, err := hashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	now := s.now()

	switch payload.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByResetToken(ctx, payload.Token)
		if err != nil {
			return resetFailure(err)
		}
		if admin.PasswordResetUntil == nil || now.After(*admin.PasswordResetUntil) {
			return fmt.Errorf("reset token expired: %w", ErrUnauthorized)
		}
		admin.PasswordHash = hash
		admin.PasswordResetToken = ""
		admin.PasswordResetUntil = nil
		admin.RefreshToken = ""
		return s.admins.Save(ctx, &admin)
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByResetToken(ctx, payload.Token)
		if err != nil {
			return resetFailure(err)
		}
		if teacher.PasswordResetUntil == nil || now.After(*teacher.PasswordResetUntil) {
			return fmt.Errorf("reset token expired: %w", ErrUnauthorized)
		}
		teacher.PasswordHash = hash
		teacher.PasswordResetToken = ""
		teacher.PasswordResetUntil = nil
		teacher.RefreshToken = ""
		return s.teachers.Save(ctx, &teacher)
	case models.RoleStudent:
		student, err := s.students.GetByResetToken(ctx, payload.Token)
		if err != nil {
			return resetFailure(err)
		}
		if student.PasswordResetUntil == nil || now.After(*student.PasswordResetUntil) {
			return fmt.Errorf("reset token expired: %w", ErrUnauthorized)
		}
		student.PasswordHash = hash
		student.PasswordResetToken = ""
		student.PasswordResetUntil = nil
		student.RefreshToken = ""
		return s.students.Save(ctx, &student)
	default:
		return fmt.Errorf("unknown role %q: %w", payload.Role, ErrInvalid)
	}
}

func (s *authService) issueAndStore(ctx context.Context, principal auth.Principal) (dto.TokenPairResponse, error) {
	access, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(principal)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}

	if err := s.setRefreshToken(ctx, principal.ID, principal.Role, refresh); err != nil {
		return dto.TokenPairResponse{}, err
	}

	return dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) storedRefreshToken(ctx context.Context, principal auth.Principal) (string, error) {
	switch principal.Role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, principal.ID)
		if err != nil {
			return "", staleOrInternal(err)
		}
		return admin.RefreshToken, nil
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, principal.ID)
		if err != nil {
			return "", staleOrInternal(err)
		}
		return teacher.RefreshToken, nil
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, principal.ID)
		if err != nil {
			return "", staleOrInternal(err)
		}
		return student.RefreshToken, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", principal.Role, ErrForbidden)
	}
}

func (s *authService) setRefreshToken(ctx context.Context, principalID uint, role, token string) error {
	switch role {
	case models.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, principalID)
		if err != nil {
			return staleOrInternal(err)
		}
		admin.RefreshToken = token
		return s.admins.Save(ctx, &admin)
	case models.RoleTeacher:
		teacher, err := s.teachers.GetByID(ctx, principalID)
		if err != nil {
			return staleOrInternal(err)
		}
		teacher.RefreshToken = token
		return s.teachers.Save(ctx, &teacher)
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, principalID)
		if err != nil {
			return staleOrInternal(err)
		}
		student.RefreshToken = token
		return s.students.Save(ctx, &student)
	default:
		return fmt.Errorf("unknown role %q: %w", role, ErrForbidden)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func loginFailure(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	return err
}

func resetFailure(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("reset token unknown: %w", ErrUnauthorized)
	}
	return err
}

func swallowUnknownEmail(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func notFoundOrInternal(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return err
}

func hashPassword(plain string) (string, error) {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func checkPassword(hash, plain string) bool {
	return auth.CheckPassword(hash, plain)
}
