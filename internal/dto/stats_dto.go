package dto

// OverviewStats is the tenant-wide dashboard aggregate.
type OverviewStats struct {
	Teachers         int64 `json:"teachers"`
	Students         int64 `json:"students"`
	Courses          int64 `json:"courses"`
	UpcomingMeetings int64 `json:"upcoming_meetings"`
	ActiveNotices    int64 `json:"active_notices"`
}

// CourseStats is the per-course dashboard aggregate.
type CourseStats struct {
	CourseID        uint    `json:"course_id"`
	EnrolledCount   int     `json:"enrolled_count"`
	AssignmentCount int     `json:"assignment_count"`
	TestCount       int     `json:"test_count"`
	GradedCount     int64   `json:"graded_count"`
	AttendanceDays  int     `json:"attendance_days"`
	AttendanceRate  float64 `json:"attendance_rate"`
}
