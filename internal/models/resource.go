package models

import "time"

// Resource is an uploaded study material attached to a course.
type Resource struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	FileURL      string    `gorm:"size:512;not null" json:"file_url"`
	FileSize     int64     `gorm:"not null;default:0" json:"file_size"`
	FileType     string    `gorm:"size:32;not null;default:file" json:"file_type"`
	CourseID     uint      `gorm:"not null;index" json:"course_id"`
	AdminID      uint      `gorm:"not null;index" json:"admin_id"`
	UploaderID   uint      `gorm:"not null" json:"uploader_id"`
	UploaderRole string    `gorm:"size:16;not null" json:"uploader_role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
