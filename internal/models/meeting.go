package models

import "time"

// Meeting lifecycle statuses.
const (
	MeetingScheduled = "scheduled"
	MeetingOngoing   = "ongoing"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

// JoinWindowBefore is how early attendees may join before the start time.
const JoinWindowBefore = 15 * time.Minute

// Meeting is a scheduled video session for a course, backed by an
// externally provisioned room.
type Meeting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	CourseID        uint      `gorm:"not null;index" json:"course_id"`
	TeacherID       uint      `gorm:"not null;index" json:"teacher_id"`
	AdminID         uint      `gorm:"not null;index" json:"admin_id"`
	ScheduledTime   time.Time `gorm:"not null" json:"scheduled_time"`
	DurationMinutes int       `gorm:"not null;default:60" json:"duration_minutes"`
	MeetingLink     string    `gorm:"size:512;not null" json:"meeting_link"`
	MeetingID       string    `gorm:"size:128;not null" json:"meeting_id"`
	MeetingPassword string    `gorm:"size:64" json:"meeting_password"`
	Provider        string    `gorm:"size:32;not null;default:jitsi" json:"provider"`
	RoomName        string    `gorm:"size:255" json:"room_name"`
	Status          string    `gorm:"size:16;not null;default:scheduled" json:"status"`
	Attendees       []Student `gorm:"many2many:meeting_attendees" json:"attendees,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EndTime returns the scheduled end of the meeting.
func (m Meeting) EndTime() time.Time {
	return m.ScheduledTime.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// CanJoin reports whether the meeting accepts attendees at the given time.
func (m Meeting) CanJoin(reference time.Time) bool {
	if m.Status == MeetingCancelled || m.Status == MeetingCompleted {
		return false
	}
	return !reference.Before(m.ScheduledTime.Add(-JoinWindowBefore)) && !reference.After(m.EndTime())
}

// CanTransitionTo reports whether the lifecycle allows moving to the
// requested status. Cancelled and completed are terminal.
func (m Meeting) CanTransitionTo(status string) bool {
	switch m.Status {
	case MeetingScheduled:
		return status == MeetingOngoing || status == MeetingCompleted || status == MeetingCancelled
	case MeetingOngoing:
		return status == MeetingCompleted || status == MeetingCancelled
	default:
		return false
	}
}
