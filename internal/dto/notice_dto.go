package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// NoticeCreateRequest describes the payload for publishing a notice.
type NoticeCreateRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Content  string `json:"content" validate:"required,min=3"`
	Priority string `json:"priority" validate:"omitempty,oneof=normal important urgent"`
	Target   string `json:"target" validate:"omitempty,oneof=all students teachers"`
}

// NoticeResponse is the serialized notice representation.
type NoticeResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNoticeResponse converts a model into a DTO.
func NewNoticeResponse(model models.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        model.ID,
		Title:     model.Title,
		Content:   model.Content,
		Priority:  model.Priority,
		Target:    model.Target,
		CreatedAt: model.CreatedAt,
	}
}

// NewNoticeResponseSlice converts a slice of models into DTOs.
func NewNoticeResponseSlice(notices []models.Notice) []NoticeResponse {
	responses := make([]NoticeResponse, 0, len(notices))
	for _, notice := range notices {
		responses = append(responses, NewNoticeResponse(notice))
	}

	return responses
}
