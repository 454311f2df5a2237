package models

import "time"

// Assignment is a gradeable work item attached to a course.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	TotalMarks  float64   `gorm:"not null;default:100" json:"total_marks"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	TeacherID   uint      `gorm:"not null;index" json:"teacher_id"`
	AdminID     uint      `gorm:"not null;index" json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPastDue reports whether the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
