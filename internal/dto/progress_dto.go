package dto

// ItemProgress is one graded item within a student's progress view.
type ItemProgress struct {
	ItemType   string  `json:"item_type"`
	ItemID     uint    `json:"item_id"`
	Title      string  `json:"title"`
	CourseID   uint    `json:"course_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage int     `json:"percentage"`
	Completed  bool    `json:"completed"`
}

// CourseProgress aggregates a student's standing in one course. The
// percentage counts every gradeable item in the course, not only the ones
// already graded, so ungraded work drags the figure down.
type CourseProgress struct {
	CourseID      uint           `json:"course_id"`
	CourseName    string         `json:"course_name"`
	CourseCode    string         `json:"course_code"`
	TotalItems    int            `json:"total_items"`
	Completed     int            `json:"completed"`
	TotalObtained float64        `json:"total_obtained"`
	TotalPossible float64        `json:"total_possible"`
	Percentage    int            `json:"percentage"`
	Items         []ItemProgress `json:"items"`
}

// StudentProgressResponse is the full cross-course progress view.
type StudentProgressResponse struct {
	StudentID         uint             `json:"student_id"`
	Courses           []CourseProgress `json:"courses"`
	OverallPercentage int              `json:"overall_percentage"`
}

// ScoreDistribution buckets graded percentages for a course overview.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// CourseProgressOverview is the teacher-facing aggregate for one course.
type CourseProgressOverview struct {
	CourseID       uint              `json:"course_id"`
	CourseName     string            `json:"course_name"`
	EnrolledCount  int               `json:"enrolled_count"`
	GradedCount    int               `json:"graded_count"`
	AveragePercent float64           `json:"average_percent"`
	MinPercent     int               `json:"min_percent"`
	MaxPercent     int               `json:"max_percent"`
	Distribution   ScoreDistribution `json:"distribution"`
}
