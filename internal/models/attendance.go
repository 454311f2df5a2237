package models

import "time"

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// Attendance holds one day's register for a course. Exactly one record
// exists per (course, date); re-marking the same date replaces the list.
type Attendance struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	CourseID  uint               `gorm:"not null;index:idx_attendance_course_date,unique" json:"course_id"`
	Date      time.Time          `gorm:"not null;index:idx_attendance_course_date,unique" json:"date"`
	MarkedBy  uint               `gorm:"not null" json:"marked_by"`
	AdminID   uint               `gorm:"not null;index" json:"admin_id"`
	Records   []AttendanceRecord `gorm:"constraint:OnDelete:CASCADE" json:"records"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AttendanceRecord is one student's presence entry within a register.
type AttendanceRecord struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	AttendanceID uint   `gorm:"not null;index" json:"-"`
	StudentID    uint   `gorm:"not null" json:"student_id"`
	Status       string `gorm:"size:8;not null" json:"status"`
}

// NormalizeAttendanceDate strips the time component so the (course, date)
// uniqueness key always refers to a calendar day in UTC.
func NormalizeAttendanceDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
