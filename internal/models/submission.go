package models

import "time"

// Submission is a student's handed-in work for an assignment or test.
// Exactly one submission exists per (item type, item id, student); a second
// submit replaces the first.
type Submission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemType  string    `gorm:"size:16;not null;index:idx_submissions_item_student,unique" json:"item_type"`
	ItemID    uint      `gorm:"not null;index:idx_submissions_item_student,unique" json:"item_id"`
	StudentID uint      `gorm:"not null;index:idx_submissions_item_student,unique" json:"student_id"`
	CourseID  uint      `gorm:"index" json:"course_id"`
	AdminID   uint      `gorm:"not null;index" json:"admin_id"`
	FileURL   string    `gorm:"size:512" json:"file_url"`
	Text      string    `gorm:"type:text" json:"text"`
	Link      string    `gorm:"size:512" json:"link"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
