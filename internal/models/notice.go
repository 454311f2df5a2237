package models

import "time"

// Notice priorities.
const (
	PriorityNormal    = "normal"
	PriorityImportant = "important"
	PriorityUrgent    = "urgent"
)

// Notice audience targets.
const (
	TargetAll      = "all"
	TargetStudents = "students"
	TargetTeachers = "teachers"
)

// Notice is a tenant-wide announcement aimed at students, teachers or both.
type Notice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Priority  string    `gorm:"size:16;not null;default:normal" json:"priority"`
	Target    string    `gorm:"size:16;not null;default:all" json:"target"`
	AdminID   uint      `gorm:"not null;index" json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidPriority reports whether the value is a recognised priority.
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityNormal, PriorityImportant, PriorityUrgent:
		return true
	default:
		return false
	}
}

// IsValidTarget reports whether the value is a recognised audience target.
func IsValidTarget(target string) bool {
	switch target {
	case TargetAll, TargetStudents, TargetTeachers:
		return true
	default:
		return false
	}
}
