package models

import "time"

// Discussion is one message on a course's message board. The author is a
// denormalised principal snapshot so the board survives account changes.
type Discussion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CourseID   uint      `gorm:"not null;index" json:"course_id"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	AuthorName string    `gorm:"size:255;not null" json:"author_name"`
	AuthorRole string    `gorm:"size:16;not null" json:"author_role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
