package service

import (
	"fmt"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// authorizeCourseRead lets admins and the owning teacher through, and
// students only when they are enrolled. Failures surface as not found so
// callers cannot distinguish foreign courses from missing ones.
func authorizeCourseRead(auth AuthContext, course models.Course) error {
	switch {
	case auth.IsAdmin():
		return nil
	case auth.IsTeacher() && course.TeacherID == auth.PrincipalID:
		return nil
	case auth.IsStudent() && course.HasStudent(auth.PrincipalID):
		return nil
	default:
		return fmt.Errorf("course %d: %w", course.ID, ErrNotFound)
	}
}

// authorizeCourseWrite lets admins and the owning teacher through.
func authorizeCourseWrite(auth AuthContext, course models.Course) error {
	switch {
	case auth.IsAdmin():
		return nil
	case auth.IsTeacher() && course.TeacherID == auth.PrincipalID:
		return nil
	default:
		return fmt.Errorf("course %d: %w", course.ID, ErrNotFound)
	}
}

// enrolledRecipients converts a course's student list into fanout targets.
func enrolledRecipients(course models.Course) []Recipient {
	recipients := make([]Recipient, 0, len(course.Students))
	for _, student := range course.Students {
		recipients = append(recipients, Recipient{Kind: models.RoleStudent, ID: student.ID})
	}
	return recipients
}
