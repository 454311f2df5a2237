package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description string  `json:"description" validate:"omitempty"`
	DueDate     string  `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks  float64 `json:"total_marks" validate:"omitempty,gt=0"`
	CourseID    uint    `json:"course_id" validate:"required"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3"`
	Description *string  `json:"description" validate:"omitempty"`
	DueDate     *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks  *float64 `json:"total_marks" validate:"omitempty,gt=0"`
}

// AssignmentResponse is the serialized assignment representation.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	TotalMarks  float64   `json:"total_marks"`
	CourseID    uint      `json:"course_id"`
	TeacherID   uint      `json:"teacher_id"`
	PastDue     bool      `json:"past_due"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment, reference time.Time) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		TotalMarks:  model.TotalMarks,
		CourseID:    model.CourseID,
		TeacherID:   model.TeacherID,
		PastDue:     model.IsPastDue(reference),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, reference time.Time) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, reference))
	}

	return responses
}
