package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification categories.
const (
	CategoryAssignment   = "assignment"
	CategoryTest         = "test"
	CategorySubmission   = "submission"
	CategoryGrade        = "grade"
	CategoryMeeting      = "meeting"
	CategoryAnnouncement = "announcement"
	CategoryGeneral      = "general"
)

// Notification is a per-recipient message produced by domain-event fanout.
// The recipient is a tagged (kind, id) pair so the valid principal kinds
// can be enumerated statically.
type Notification struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	RecipientKind string            `gorm:"size:16;not null;index:idx_notifications_recipient" json:"recipient_kind"`
	RecipientID   uint              `gorm:"not null;index:idx_notifications_recipient" json:"recipient_id"`
	Category      string            `gorm:"size:32;not null" json:"category"`
	Title         string            `gorm:"size:255;not null" json:"title"`
	Message       string            `gorm:"type:text;not null" json:"message"`
	Read          bool              `gorm:"not null;default:false" json:"read"`
	RelatedID     *uint             `json:"related_id,omitempty"`
	RelatedName   string            `gorm:"size:255" json:"related_name,omitempty"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	AdminID       uint              `gorm:"not null;index" json:"admin_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// IsValidRecipientKind reports whether kind names a principal type.
func IsValidRecipientKind(kind string) bool {
	switch kind {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}
