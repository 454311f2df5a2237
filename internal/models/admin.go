package models

import "time"

// Admin is the root record of a tenant. Every other record in the system is
// scoped to exactly one admin via its AdminID column.
type Admin struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Institution        string     `gorm:"size:255;not null" json:"institution"`
	Email              string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"size:255;not null" json:"-"`
	RefreshToken       string     `gorm:"size:512" json:"-"`
	PasswordResetToken string     `gorm:"size:128" json:"-"`
	PasswordResetUntil *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
