package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// AdminRegisterRequest describes the payload for creating a new tenant.
type AdminRegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Institution string `json:"institution" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// PrincipalRegisterRequest describes teacher/student self-registration
// under an existing tenant.
type PrincipalRegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	CollegeID string `json:"college_id" validate:"omitempty,min=1"`
	AdminID   uint   `json:"admin_id" validate:"required,min=1"`
}

// LoginRequest describes the credentials payload shared by all roles.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to be rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ProfileUpdateRequest describes the fields a principal may change on its
// own account.
type ProfileUpdateRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// ChangePasswordRequest describes a password change for the caller.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin teacher student"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=admin teacher student"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// TokenPairResponse carries a freshly issued access/refresh token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse bundles the token pair with the authenticated profile.
type LoginResponse struct {
	Tokens  TokenPairResponse `json:"tokens"`
	Profile ProfileResponse   `json:"profile"`
}

// ProfileResponse is the role-agnostic principal representation.
type ProfileResponse struct {
	ID          uint      `json:"id"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Institution string    `json:"institution,omitempty"`
	CollegeID   string    `json:"college_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAdminProfile converts an admin model into a profile DTO.
func NewAdminProfile(model models.Admin) ProfileResponse {
	return ProfileResponse{
		ID:          model.ID,
		Role:        models.RoleAdmin,
		Name:        model.Name,
		Email:       model.Email,
		Institution: model.Institution,
		CreatedAt:   model.CreatedAt,
	}
}

// NewTeacherProfile converts a teacher model into a profile DTO.
func NewTeacherProfile(model models.Teacher) ProfileResponse {
	return ProfileResponse{
		ID:        model.ID,
		Role:      models.RoleTeacher,
		Name:      model.Name,
		Email:     model.Email,
		CollegeID: model.CollegeID,
		CreatedAt: model.CreatedAt,
	}
}

// NewStudentProfile converts a student model into a profile DTO.
func NewStudentProfile(model models.Student) ProfileResponse {
	return ProfileResponse{
		ID:        model.ID,
		Role:      models.RoleStudent,
		Name:      model.Name,
		Email:     model.Email,
		CollegeID: model.CollegeID,
		CreatedAt: model.CreatedAt,
	}
}
