package models

import "time"

// Student is a tenant member that enrols in courses and submits coursework.
// The non-empty college id is unique per tenant at the database level, the
// same way the course code is.
type Student struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Email              string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"size:255;not null" json:"-"`
	CollegeID          string     `gorm:"size:64;index:idx_students_tenant_clg,unique,where:college_id <> ''" json:"college_id"`
	AdminID            uint       `gorm:"not null;index;index:idx_students_tenant_clg,unique" json:"admin_id"`
	RefreshToken       string     `gorm:"size:512" json:"-"`
	PasswordResetToken string     `gorm:"size:128" json:"-"`
	PasswordResetUntil *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
