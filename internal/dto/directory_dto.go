package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// TeacherCreateRequest describes the payload for adding a teacher account.
type TeacherCreateRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	CollegeID string `json:"college_id" validate:"omitempty,max=64"`
}

// StudentCreateRequest describes the payload for adding a student account.
type StudentCreateRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	CollegeID string `json:"college_id" validate:"omitempty,max=64"`
}

// TeacherResponse is the serialized teacher representation.
type TeacherResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CollegeID string    `json:"college_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTeacherResponse converts a model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		CollegeID: model.CollegeID,
		CreatedAt: model.CreatedAt,
	}
}

// NewTeacherResponseSlice converts a slice of models into DTOs.
func NewTeacherResponseSlice(teachers []models.Teacher) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, NewTeacherResponse(teacher))
	}

	return responses
}

// StudentResponse is the serialized student representation.
type StudentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CollegeID string    `json:"college_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		CollegeID: model.CollegeID,
		CreatedAt: model.CreatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}
