package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// MeetingCreateRequest describes the payload for scheduling a meeting.
type MeetingCreateRequest struct {
	Title           string `json:"title" validate:"required,min=3"`
	Description     string `json:"description" validate:"omitempty"`
	CourseID        uint   `json:"course_id" validate:"required"`
	ScheduledTime   string `json:"scheduled_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
}

// MeetingUpdateRequest describes the payload for rescheduling a meeting.
type MeetingUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=3"`
	Description     *string `json:"description" validate:"omitempty"`
	ScheduledTime   *string `json:"scheduled_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
}

// MeetingStatusRequest moves a meeting through its lifecycle.
type MeetingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ongoing completed cancelled"`
}

// MeetingResponse is the serialized meeting representation.
type MeetingResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CourseID        uint      `json:"course_id"`
	TeacherID       uint      `json:"teacher_id"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingLink     string    `json:"meeting_link"`
	MeetingID       string    `json:"meeting_id"`
	Provider        string    `json:"provider"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewMeetingResponse converts a model into a DTO.
func NewMeetingResponse(model models.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		CourseID:        model.CourseID,
		TeacherID:       model.TeacherID,
		ScheduledTime:   model.ScheduledTime,
		EndTime:         model.EndTime(),
		DurationMinutes: model.DurationMinutes,
		MeetingLink:     model.MeetingLink,
		MeetingID:       model.MeetingID,
		Provider:        model.Provider,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewMeetingResponseSlice converts a slice of models into DTOs.
func NewMeetingResponseSlice(meetings []models.Meeting) []MeetingResponse {
	responses := make([]MeetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		responses = append(responses, NewMeetingResponse(meeting))
	}

	return responses
}

// MeetingJoinResponse carries the room credentials handed to an attendee.
type MeetingJoinResponse struct {
	MeetingLink     string `json:"meeting_link"`
	MeetingID       string `json:"meeting_id"`
	MeetingPassword string `json:"meeting_password,omitempty"`
	RoomName        string `json:"room_name"`
}
