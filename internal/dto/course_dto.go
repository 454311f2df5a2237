package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Code        string `json:"code" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"omitempty"`
	CoursePlan  string `json:"course_plan" validate:"omitempty"`
	TeacherID   uint   `json:"teacher_id" validate:"required"`
}

// CourseUpdateRequest describes the payload for updating a course.
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description" validate:"omitempty"`
	CoursePlan  *string `json:"course_plan" validate:"omitempty"`
	TeacherID   *uint   `json:"teacher_id" validate:"omitempty"`
}

// EnrollmentRequest names the student joining or leaving a course.
type EnrollmentRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// CourseResponse is the serialized course representation.
type CourseResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Code        string            `json:"code"`
	Description string            `json:"description"`
	CoursePlan  string            `json:"course_plan"`
	TeacherID   uint              `json:"teacher_id"`
	Students    []StudentResponse `json:"students,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:          model.ID,
		Name:        model.Name,
		Code:        model.Code,
		Description: model.Description,
		CoursePlan:  model.CoursePlan,
		TeacherID:   model.TeacherID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if len(model.Students) > 0 {
		response.Students = NewStudentResponseSlice(model.Students)
	}

	return response
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
