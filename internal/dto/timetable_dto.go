package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// TimetableUpsertRequest replaces the tenant's weekly grid.
type TimetableUpsertRequest struct {
	Grid map[string]any `json:"grid" validate:"required"`
}

// TimetableResponse is the serialized timetable representation.
type TimetableResponse struct {
	ID        uint           `json:"id"`
	Grid      map[string]any `json:"grid"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewTimetableResponse converts a model into a DTO.
func NewTimetableResponse(model models.Timetable) TimetableResponse {
	return TimetableResponse{
		ID:        model.ID,
		Grid:      model.Grid,
		UpdatedAt: model.UpdatedAt,
	}
}
