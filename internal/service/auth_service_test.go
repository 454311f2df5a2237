package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/auth"
	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/pkg/mail"
)

func newAuthServiceFixture(t *testing.T) (AuthService, *memoryAdminRepo, *memoryTeacherRepo, *memoryStudentRepo) {
	t.Helper()
	admins := newMemoryAdminRepo()
	teachers := newMemoryTeacherRepo()
	students := newMemoryStudentRepo()
	tokens := auth.NewManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	mailer := mail.NewConsoleSender("test@campus.local", zerolog.New(io.Discard))
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewAuthService(admins, teachers, students, tokens, mailer, validate, zerolog.New(io.Discard))
	return svc, admins, teachers, students
}

func seedStudentAccount(t *testing.T, students *memoryStudentRepo, email, password string, tenantID uint) models.Student {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	student := models.Student{Name: "Ada", Email: email, PasswordHash: hash, CollegeID: "S-1", AdminID: tenantID}
	require.NoError(t, students.Create(context.Background(), &student))
	return student
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, _, students := newAuthServiceFixture(t)
	ctx := context.Background()
	seedStudentAccount(t, students, "ada@example.com", "correct-horse", 1)

	response, err := svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "Ada@Example.com", Password: "correct-horse"})
	require.NoError(t, err, "email matching is case insensitive")
	require.NotEmpty(t, response.Tokens.AccessToken)
	require.NotEmpty(t, response.Tokens.RefreshToken)
	require.Equal(t, models.RoleStudent, response.Profile.Role)

	_, err = svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.ErrorIs(t, err, ErrUnauthorized, "unknown accounts fail the same way as bad passwords")
}

func TestAuthServiceRefreshRotationRejectsReuse(t *testing.T) {
	svc, _, _, students := newAuthServiceFixture(t)
	ctx := context.Background()
	seedStudentAccount(t, students, "ada@example.com", "correct-horse", 1)

	login, err := svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	firstRefresh := login.Tokens.RefreshToken

	rotated, err := svc.Refresh(ctx, dto.RefreshRequest{RefreshToken: firstRefresh})
	require.NoError(t, err)
	require.NotEmpty(t, rotated.RefreshToken)

	_, err = svc.Refresh(ctx, dto.RefreshRequest{RefreshToken: firstRefresh})
	require.ErrorIs(t, err, ErrUnauthorized, "an already rotated refresh token must be rejected")

	_, err = svc.Refresh(ctx, dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	require.NoError(t, err, "the current refresh token still works")
}

func TestAuthServiceLogoutRevokesRefresh(t *testing.T) {
	svc, _, _, students := newAuthServiceFixture(t)
	ctx := context.Background()
	student := seedStudentAccount(t, students, "ada@example.com", "correct-horse", 1)

	login, err := svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, AuthContext{PrincipalID: student.ID, Role: models.RoleStudent, TenantID: 1}))

	_, err = svc.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthServiceRegisterAdminRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	payload := dto.AdminRegisterRequest{Name: "Dean", Institution: "Hill Valley", Email: "dean@example.com", Password: "long-enough"}
	_, err := svc.RegisterAdmin(ctx, payload)
	require.NoError(t, err)

	_, err = svc.RegisterAdmin(ctx, payload)
	require.ErrorIs(t, err, ErrConflict)
}

func TestAuthServiceUpdateProfile(t *testing.T) {
	svc, _, _, students := newAuthServiceFixture(t)
	ctx := context.Background()
	student := seedStudentAccount(t, students, "ada@example.com", "correct-horse", 1)

	auth := AuthContext{PrincipalID: student.ID, Role: models.RoleStudent, TenantID: 1}
	updated, err := svc.UpdateProfile(ctx, auth, dto.ProfileUpdateRequest{Name: "Ada Lovelace"})
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", updated.Name)

	stored, err := students.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", stored.Name)
}

func TestAuthServiceRegisterStudentScopesCollegeIDPerTenant(t *testing.T) {
	svc, admins, _, _ := newAuthServiceFixture(t)
	ctx := context.Background()

	tenantA := models.Admin{Name: "A", Institution: "Hill Valley", Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, admins.Create(ctx, &tenantA))
	tenantB := models.Admin{Name: "B", Institution: "Shelbyville", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, admins.Create(ctx, &tenantB))

	first := dto.PrincipalRegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "long-enough", CollegeID: "S-01", AdminID: tenantA.ID}
	response, err := svc.RegisterPrincipal(ctx, models.RoleStudent, first)
	require.NoError(t, err)
	require.NotEmpty(t, response.Tokens.AccessToken)
	require.Equal(t, "S-01", response.Profile.CollegeID)

	duplicate := dto.PrincipalRegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "long-enough", CollegeID: "S-01", AdminID: tenantA.ID}
	_, err = svc.RegisterPrincipal(ctx, models.RoleStudent, duplicate)
	require.ErrorIs(t, err, ErrConflict, "college ids are unique within a tenant")

	elsewhere := dto.PrincipalRegisterRequest{Name: "Cal", Email: "cal@example.com", Password: "long-enough", CollegeID: "S-01", AdminID: tenantB.ID}
	_, err = svc.RegisterPrincipal(ctx, models.RoleStudent, elsewhere)
	require.NoError(t, err, "the same college id under another tenant is independent")

	orphan := dto.PrincipalRegisterRequest{Name: "Dee", Email: "dee@example.com", Password: "long-enough", AdminID: 99}
	_, err = svc.RegisterPrincipal(ctx, models.RoleStudent, orphan)
	require.ErrorIs(t, err, ErrNotFound, "registration needs an existing tenant")
}

func TestAuthServiceForgotPasswordHidesUnknownEmails(t *testing.T) {
	svc, _, _, students := newAuthServiceFixture(t)
	ctx := context.Background()
	student := seedStudentAccount(t, students, "ada@example.com", "correct-horse", 1)

	require.NoError(t, svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "nobody@example.com", Role: models.RoleStudent}),
		"an unknown address must not be distinguishable")

	require.NoError(t, svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ada@example.com", Role: models.RoleStudent}))

	stored, err := students.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordResetToken)

	require.NoError(t, svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: stored.PasswordResetToken, Role: models.RoleStudent, NewPassword: "brand-new-secret"}))

	_, err = svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "ada@example.com", Password: "brand-new-secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.RoleStudent, dto.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrUnauthorized)
}
