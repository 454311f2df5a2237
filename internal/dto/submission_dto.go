package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// SubmissionCreateRequest describes a student handing in work for a
// gradeable item. At least one of file URL, text or link must be present,
// which the service enforces.
type SubmissionCreateRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=assignment test"`
	ItemID   uint   `json:"item_id" validate:"required"`
	FileURL  string `json:"file_url" validate:"omitempty,url"`
	Text     string `json:"text" validate:"omitempty"`
	Link     string `json:"link" validate:"omitempty,url"`
}

// SubmissionResponse is the serialized submission representation.
type SubmissionResponse struct {
	ID        uint      `json:"id"`
	ItemType  string    `json:"item_type"`
	ItemID    uint      `json:"item_id"`
	StudentID uint      `json:"student_id"`
	CourseID  uint      `json:"course_id"`
	FileURL   string    `json:"file_url"`
	Text      string    `json:"text"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        model.ID,
		ItemType:  model.ItemType,
		ItemID:    model.ItemID,
		StudentID: model.StudentID,
		CourseID:  model.CourseID,
		FileURL:   model.FileURL,
		Text:      model.Text,
		Link:      model.Link,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
