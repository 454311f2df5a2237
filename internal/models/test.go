package models

import "time"

// Correct option letters for multiple-choice questions.
const (
	OptionA = "a"
	OptionB = "b"
	OptionC = "c"
	OptionD = "d"
)

// Test is a scheduled multiple-choice test for a course. The achievable
// total is derived from the question marks; TotalMarks is only used as a
// fallback when the question list is empty.
type Test struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	ScheduledAt time.Time      `gorm:"not null" json:"scheduled_at"`
	TotalMarks  float64        `gorm:"not null;default:100" json:"total_marks"`
	CourseID    uint           `gorm:"not null;index" json:"course_id"`
	TeacherID   uint           `gorm:"not null;index" json:"teacher_id"`
	AdminID     uint           `gorm:"not null;index" json:"admin_id"`
	Questions   []TestQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TestQuestion is one ordered multiple-choice question with four options.
type TestQuestion struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TestID        uint    `gorm:"not null;index" json:"test_id"`
	Position      int     `gorm:"not null" json:"position"`
	Prompt        string  `gorm:"type:text;not null" json:"prompt"`
	OptionA       string  `gorm:"size:512;not null" json:"option_a"`
	OptionB       string  `gorm:"size:512;not null" json:"option_b"`
	OptionC       string  `gorm:"size:512;not null" json:"option_c"`
	OptionD       string  `gorm:"size:512;not null" json:"option_d"`
	CorrectOption string  `gorm:"size:1;not null" json:"correct_option"`
	Marks         float64 `gorm:"not null;default:1" json:"marks"`
}

// MaxScore returns the achievable total for the test.
func (t Test) MaxScore() float64 {
	if len(t.Questions) == 0 {
		return t.TotalMarks
	}

	var total float64
	for _, question := range t.Questions {
		total += question.Marks
	}
	return total
}

// IsValidOption reports whether the letter names one of the four options.
func IsValidOption(letter string) bool {
	switch letter {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	default:
		return false
	}
}
