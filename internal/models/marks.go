package models

import "time"

// Marks records a grade for one student on one gradeable item. Re-grading
// the same (item type, item id, student) triple overwrites the prior record.
type Marks struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemType  string    `gorm:"size:16;not null;index:idx_marks_item_student,unique" json:"item_type"`
	ItemID    uint      `gorm:"not null;index:idx_marks_item_student,unique" json:"item_id"`
	StudentID uint      `gorm:"not null;index:idx_marks_item_student,unique" json:"student_id"`
	TeacherID uint      `gorm:"index" json:"teacher_id"`
	CourseID  uint      `gorm:"index" json:"course_id"`
	AdminID   uint      `gorm:"not null;index" json:"admin_id"`
	Score     float64   `gorm:"not null" json:"score"`
	MaxScore  float64   `gorm:"not null" json:"max_score"`
	Remarks   string    `gorm:"type:text" json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Percentage returns the rounded score percentage, 0 when MaxScore is 0.
func (m Marks) Percentage() int {
	if m.MaxScore <= 0 {
		return 0
	}
	return int(m.Score/m.MaxScore*100 + 0.5)
}
