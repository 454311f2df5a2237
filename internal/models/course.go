package models

import "time"

// Course is owned by one teacher and enrols a set of students. The course
// code is unique within a tenant, not globally.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Code        string    `gorm:"size:64;not null;index:idx_courses_tenant_code,unique" json:"code"`
	AdminID     uint      `gorm:"not null;index:idx_courses_tenant_code,unique" json:"admin_id"`
	Description string    `gorm:"type:text" json:"description"`
	CoursePlan  string    `gorm:"type:text" json:"course_plan"`
	TeacherID   uint      `gorm:"not null;index" json:"teacher_id"`
	Students    []Student `gorm:"many2many:course_students" json:"students,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasStudent reports whether the given student is enrolled.
func (c Course) HasStudent(studentID uint) bool {
	for _, student := range c.Students {
		if student.ID == studentID {
			return true
		}
	}
	return false
}
