package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// ResourceCreateRequest describes the metadata accompanying an upload.
type ResourceCreateRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=2"`
	Description string `form:"description" json:"description" validate:"omitempty"`
	CourseID    uint   `form:"course_id" json:"course_id" validate:"required"`
}

// ResourceResponse is the serialized study material representation.
type ResourceResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FileName     string    `json:"file_name"`
	FileURL      string    `json:"file_url"`
	FileSize     int64     `json:"file_size"`
	FileType     string    `json:"file_type"`
	CourseID     uint      `json:"course_id"`
	UploaderID   uint      `json:"uploader_id"`
	UploaderRole string    `json:"uploader_role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewResourceResponse converts a model into a DTO.
func NewResourceResponse(model models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		FileName:     model.FileName,
		FileURL:      model.FileURL,
		FileSize:     model.FileSize,
		FileType:     model.FileType,
		CourseID:     model.CourseID,
		UploaderID:   model.UploaderID,
		UploaderRole: model.UploaderRole,
		CreatedAt:    model.CreatedAt,
	}
}

// NewResourceResponseSlice converts a slice of models into DTOs.
func NewResourceResponseSlice(resources []models.Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, NewResourceResponse(resource))
	}

	return responses
}
