package models

import "time"

// Teacher is a tenant member that owns courses and grades coursework.
// CollegeID is the institution-local identifier; when present it is unique
// within the tenant, enforced by a partial unique index so concurrent
// registrations cannot slip past the service-level check.
type Teacher struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Email              string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"size:255;not null" json:"-"`
	CollegeID          string     `gorm:"size:64;index:idx_teachers_tenant_clg,unique,where:college_id <> ''" json:"college_id"`
	AdminID            uint       `gorm:"not null;index;index:idx_teachers_tenant_clg,unique" json:"admin_id"`
	RefreshToken       string     `gorm:"size:512" json:"-"`
	PasswordResetToken string     `gorm:"size:128" json:"-"`
	PasswordResetUntil *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Courses            []Course   `gorm:"foreignKey:TeacherID" json:"courses,omitempty"`
}
