package models

// Principal roles recognised by the authorization layer.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Gradeable item kinds shared by submissions and marks.
const (
	ItemTypeAssignment = "assignment"
	ItemTypeTest       = "test"
)

// IsValidItemType reports whether the given kind is a gradeable item type.
func IsValidItemType(kind string) bool {
	return kind == ItemTypeAssignment || kind == ItemTypeTest
}
