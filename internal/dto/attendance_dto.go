package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// AttendanceEntryRequest is one student's presence entry.
type AttendanceEntryRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
}

// AttendanceMarkRequest describes a teacher marking a day's register.
// Re-marking the same course and date replaces the earlier register.
type AttendanceMarkRequest struct {
	CourseID uint                     `json:"course_id" validate:"required"`
	Date     string                   `json:"date" validate:"required,datetime=2006-01-02"`
	Records  []AttendanceEntryRequest `json:"records" validate:"required,min=1,dive"`
}

// AttendanceEntryResponse is one student's presence entry.
type AttendanceEntryResponse struct {
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"`
}

// AttendanceResponse is the serialized register for one course day.
type AttendanceResponse struct {
	ID       uint                      `json:"id"`
	CourseID uint                      `json:"course_id"`
	Date     time.Time                 `json:"date"`
	MarkedBy uint                      `json:"marked_by"`
	Records  []AttendanceEntryResponse `json:"records"`
	Present  int                       `json:"present"`
	Absent   int                       `json:"absent"`
}

// NewAttendanceResponse converts a model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	response := AttendanceResponse{
		ID:       model.ID,
		CourseID: model.CourseID,
		Date:     model.Date,
		MarkedBy: model.MarkedBy,
		Records:  make([]AttendanceEntryResponse, 0, len(model.Records)),
	}
	for _, record := range model.Records {
		response.Records = append(response.Records, AttendanceEntryResponse{
			StudentID: record.StudentID,
			Status:    record.Status,
		})
		if record.Status == models.AttendancePresent {
			response.Present++
		} else {
			response.Absent++
		}
	}

	return response
}

// NewAttendanceResponseSlice converts a slice of models into DTOs.
func NewAttendanceResponseSlice(attendances []models.Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(attendances))
	for _, attendance := range attendances {
		responses = append(responses, NewAttendanceResponse(attendance))
	}

	return responses
}

// StudentAttendanceSummary aggregates one student's presence over a course.
type StudentAttendanceSummary struct {
	CourseID   uint    `json:"course_id"`
	TotalDays  int     `json:"total_days"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}
