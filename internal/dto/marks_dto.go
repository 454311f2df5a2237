package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// MarksUpsertRequest describes a teacher grading one student on one item.
type MarksUpsertRequest struct {
	ItemType  string  `json:"item_type" validate:"required,oneof=assignment test"`
	ItemID    uint    `json:"item_id" validate:"required"`
	StudentID uint    `json:"student_id" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0"`
	MaxScore  float64 `json:"max_score" validate:"required,gt=0"`
	Remarks   string  `json:"remarks" validate:"omitempty"`
}

// MarksResponse is the serialized grade representation.
type MarksResponse struct {
	ID         uint      `json:"id"`
	ItemType   string    `json:"item_type"`
	ItemID     uint      `json:"item_id"`
	StudentID  uint      `json:"student_id"`
	TeacherID  uint      `json:"teacher_id"`
	CourseID   uint      `json:"course_id"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"max_score"`
	Percentage int       `json:"percentage"`
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewMarksResponse converts a model into a DTO.
func NewMarksResponse(model models.Marks) MarksResponse {
	return MarksResponse{
		ID:         model.ID,
		ItemType:   model.ItemType,
		ItemID:     model.ItemID,
		StudentID:  model.StudentID,
		TeacherID:  model.TeacherID,
		CourseID:   model.CourseID,
		Score:      model.Score,
		MaxScore:   model.MaxScore,
		Percentage: model.Percentage(),
		Remarks:    model.Remarks,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewMarksResponseSlice converts a slice of models into DTOs.
func NewMarksResponseSlice(marks []models.Marks) []MarksResponse {
	responses := make([]MarksResponse, 0, len(marks))
	for _, entry := range marks {
		responses = append(responses, NewMarksResponse(entry))
	}

	return responses
}
