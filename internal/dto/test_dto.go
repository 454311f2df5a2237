package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// TestQuestionRequest describes one multiple-choice question.
type TestQuestionRequest struct {
	Prompt        string  `json:"prompt" validate:"required,min=3"`
	OptionA       string  `json:"option_a" validate:"required"`
	OptionB       string  `json:"option_b" validate:"required"`
	OptionC       string  `json:"option_c" validate:"required"`
	OptionD       string  `json:"option_d" validate:"required"`
	CorrectOption string  `json:"correct_option" validate:"required,oneof=a b c d"`
	Marks         float64 `json:"marks" validate:"omitempty,gt=0"`
}

// TestCreateRequest describes the payload for scheduling a test.
type TestCreateRequest struct {
	Title       string                `json:"title" validate:"required,min=3"`
	Description string                `json:"description" validate:"omitempty"`
	ScheduledAt string                `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks  float64               `json:"total_marks" validate:"omitempty,gt=0"`
	CourseID    uint                  `json:"course_id" validate:"required"`
	Questions   []TestQuestionRequest `json:"questions" validate:"omitempty,dive"`
}

// TestUpdateRequest describes the payload for updating a test. A non-nil
// question list replaces all existing questions.
type TestUpdateRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=3"`
	Description *string               `json:"description" validate:"omitempty"`
	ScheduledAt *string               `json:"scheduled_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks  *float64              `json:"total_marks" validate:"omitempty,gt=0"`
	Questions   []TestQuestionRequest `json:"questions" validate:"omitempty,dive"`
}

// TestSubmitRequest carries a student's chosen answers keyed by question id.
type TestSubmitRequest struct {
	Answers map[uint]string `json:"answers" validate:"required,min=1"`
}

// TestQuestionResponse is the question representation for the course owner.
type TestQuestionResponse struct {
	ID            uint    `json:"id"`
	Position      int     `json:"position"`
	Prompt        string  `json:"prompt"`
	OptionA       string  `json:"option_a"`
	OptionB       string  `json:"option_b"`
	OptionC       string  `json:"option_c"`
	OptionD       string  `json:"option_d"`
	CorrectOption string  `json:"correct_option,omitempty"`
	Marks         float64 `json:"marks"`
}

// TestResponse is the serialized test representation. The correct answers
// are stripped unless the caller owns the test.
type TestResponse struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	ScheduledAt time.Time              `json:"scheduled_at"`
	TotalMarks  float64                `json:"total_marks"`
	MaxScore    float64                `json:"max_score"`
	CourseID    uint                   `json:"course_id"`
	TeacherID   uint                   `json:"teacher_id"`
	Questions   []TestQuestionResponse `json:"questions,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewTestResponse converts a model into a DTO. When includeAnswers is false
// the correct option letters are omitted.
func NewTestResponse(model models.Test, includeAnswers bool) TestResponse {
	response := TestResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		ScheduledAt: model.ScheduledAt,
		TotalMarks:  model.TotalMarks,
		MaxScore:    model.MaxScore(),
		CourseID:    model.CourseID,
		TeacherID:   model.TeacherID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	for _, question := range model.Questions {
		item := TestQuestionResponse{
			ID:       question.ID,
			Position: question.Position,
			Prompt:   question.Prompt,
			OptionA:  question.OptionA,
			OptionB:  question.OptionB,
			OptionC:  question.OptionC,
			OptionD:  question.OptionD,
			Marks:    question.Marks,
		}
		if includeAnswers {
			item.CorrectOption = question.CorrectOption
		}
		response.Questions = append(response.Questions, item)
	}

	return response
}

// NewTestResponseSlice converts a slice of models into DTOs.
func NewTestResponseSlice(tests []models.Test, includeAnswers bool) []TestResponse {
	responses := make([]TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewTestResponse(test, includeAnswers))
	}

	return responses
}

// TestResultResponse reports the server-side grading outcome of a submit.
type TestResultResponse struct {
	TestID     uint    `json:"test_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage int     `json:"percentage"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
}
