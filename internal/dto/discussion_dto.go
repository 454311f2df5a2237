package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// DiscussionCreateRequest describes a new message on a course board.
type DiscussionCreateRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

// DiscussionResponse is the serialized board message representation.
type DiscussionResponse struct {
	ID         uint      `json:"id"`
	CourseID   uint      `json:"course_id"`
	Message    string    `json:"message"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewDiscussionResponse converts a model into a DTO.
func NewDiscussionResponse(model models.Discussion) DiscussionResponse {
	return DiscussionResponse{
		ID:         model.ID,
		CourseID:   model.CourseID,
		Message:    model.Message,
		AuthorID:   model.AuthorID,
		AuthorName: model.AuthorName,
		AuthorRole: model.AuthorRole,
		CreatedAt:  model.CreatedAt,
	}
}

// NewDiscussionResponseSlice converts a slice of models into DTOs.
func NewDiscussionResponseSlice(discussions []models.Discussion) []DiscussionResponse {
	responses := make([]DiscussionResponse, 0, len(discussions))
	for _, discussion := range discussions {
		responses = append(responses, NewDiscussionResponse(discussion))
	}

	return responses
}
