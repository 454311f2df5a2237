package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// TestService exposes multiple-choice test management and the student
// submit flow. Grading happens server-side: the stored correct options are
// never trusted from the client, and the achievable total is derived from
// the question marks.
type TestService interface {
	Create(ctx context.Context, auth AuthContext, payload dto.TestCreateRequest) (dto.TestResponse, error)
	Get(ctx context.Context, auth AuthContext, id uint) (dto.TestResponse, error)
	List(ctx context.Context, auth AuthContext, courseID uint) ([]dto.TestResponse, error)
	Update(ctx context.Context, auth AuthContext, id uint, payload dto.TestUpdateRequest) (dto.TestResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
	Submit(ctx context.Context, auth AuthContext, id uint, payload dto.TestSubmitRequest) (dto.TestResultResponse, error)
}

type testService struct {
	repo        repository.TestRepository
	courses     repository.CourseRepository
	submissions repository.SubmissionRepository
	marks       repository.MarksRepository
	notifier    Notifier
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewTestService builds the test service.
func NewTestService(repo repository.TestRepository, courses repository.CourseRepository, submissions repository.SubmissionRepository, marks repository.MarksRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) TestService {
	return &testService{
		repo:        repo,
		courses:     courses,
		submissions: submissions,
		marks:       marks,
		notifier:    notifier,
		validator:   validate,
		logger:      logger.With().Str("component", "test_service").Logger(),
		now:         time.Now,
	}
}

func (s *testService) Create(ctx context.Context, auth AuthContext, payload dto.TestCreateRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	scheduledAt, err := time.Parse(time.RFC3339, payload.ScheduledAt)
	if err != nil {
		return dto.TestResponse{}, fmt.Errorf("invalid schedule time: %w", ErrInvalid)
	}

	course, err := s.courses.GetWithStudents(ctx, payload.CourseID, auth.TenantID)
	if err != nil {
		return dto.TestResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.TestResponse{}, err
	}

	totalMarks := payload.TotalMarks
	if totalMarks <= 0 {
		totalMarks = 100
	}

	test := models.Test{
		Title:       payload.Title,
		Description: payload.Description,
		ScheduledAt: scheduledAt,
		TotalMarks:  totalMarks,
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		AdminID:     auth.TenantID,
		Questions:   buildQuestions(payload.Questions),
	}
	if err := s.repo.Create(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.logger.Info().Uint("test_id", test.ID).Uint("course_id", course.ID).Int("questions", len(test.Questions)).Msg("test scheduled")

	s.notifier.Notify(ctx, auth.TenantID, enrolledRecipients(course), Event{
		Category:    models.CategoryTest,
		Title:       "New test scheduled",
		Message:     fmt.Sprintf("%s is scheduled in %s for %s.", test.Title, course.Name, scheduledAt.Format(time.RFC1123)),
		RelatedID:   &test.ID,
		RelatedName: test.Title,
		Metadata:    map[string]any{"course_id": course.ID, "scheduled_at": scheduledAt},
	})

	return dto.NewTestResponse(test, true), nil
}

func (s *testService) Get(ctx context.Context, auth AuthContext, id uint) (dto.TestResponse, error) {
	test, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.TestResponse{}, notFoundOrInternal(err, "test")
	}

	course, err := s.courses.GetWithStudents(ctx, test.CourseID, auth.TenantID)
	if err != nil {
		return dto.TestResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseRead(auth, course); err != nil {
		return dto.TestResponse{}, err
	}

	return dto.NewTestResponse(test, s.mayViewAnswers(auth, test)), nil
}

func (s *testService) List(ctx context.Context, auth AuthContext, courseID uint) ([]dto.TestResponse, error) {
	if courseID != 0 {
		course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
		if err != nil {
			return nil, notFoundOrInternal(err, "course")
		}
		if err := authorizeCourseRead(auth, course); err != nil {
			return nil, err
		}
		tests, err := s.repo.List(ctx, auth.TenantID, repository.TestFilter{CourseID: courseID})
		if err != nil {
			return nil, err
		}
		return s.toResponses(auth, tests), nil
	}

	switch {
	case auth.IsTeacher():
		tests, err := s.repo.List(ctx, auth.TenantID, repository.TestFilter{TeacherID: auth.PrincipalID})
		if err != nil {
			return nil, err
		}
		return s.toResponses(auth, tests), nil
	case auth.IsStudent():
		courses, err := s.courses.ListByStudent(ctx, auth.TenantID, auth.PrincipalID)
		if err != nil {
			return nil, err
		}
		var all []models.Test
		for _, course := range courses {
			tests, err := s.repo.List(ctx, auth.TenantID, repository.TestFilter{CourseID: course.ID})
			if err != nil {
				return nil, err
			}
			all = append(all, tests...)
		}
		return s.toResponses(auth, all), nil
	default:
		tests, err := s.repo.List(ctx, auth.TenantID, repository.TestFilter{})
		if err != nil {
			return nil, err
		}
		return s.toResponses(auth, tests), nil
	}
}

func (s *testService) Update(ctx context.Context, auth AuthContext, id uint, payload dto.TestUpdateRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	test, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.TestResponse{}, notFoundOrInternal(err, "test")
	}

	course, err := s.courses.GetByID(ctx, test.CourseID, auth.TenantID)
	if err != nil {
		return dto.TestResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.TestResponse{}, err
	}

	if payload.Title != nil {
		test.Title = *payload.Title
	}
	if payload.Description != nil {
		test.Description = *payload.Description
	}
	if payload.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *payload.ScheduledAt)
		if err != nil {
			return dto.TestResponse{}, fmt.Errorf("invalid schedule time: %w", ErrInvalid)
		}
		test.ScheduledAt = scheduledAt
	}
	if payload.TotalMarks != nil {
		test.TotalMarks = *payload.TotalMarks
	}

	if err := s.repo.Save(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	if payload.Questions != nil {
		if err := s.repo.ReplaceQuestions(ctx, &test, buildQuestions(payload.Questions)); err != nil {
			return dto.TestResponse{}, err
		}
	}

	return dto.NewTestResponse(test, true), nil
}

func (s *testService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	test, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "test")
	}

	course, err := s.courses.GetByID(ctx, test.CourseID, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "test")
	}

	s.logger.Info().Uint("test_id", id).Msg("test deleted")

	return nil
}

// Submit grades a student's answer sheet against the stored questions,
// records both the submission and the resulting marks, and notifies the
// student. Submitting again replaces the earlier attempt and its grade.
func (s *testService) Submit(ctx context.Context, auth AuthContext, id uint, payload dto.TestSubmitRequest) (dto.TestResultResponse, error) {
	if !auth.IsStudent() {
		return dto.TestResultResponse{}, fmt.Errorf("only students submit tests: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResultResponse{}, err
	}

	test, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.TestResultResponse{}, notFoundOrInternal(err, "test")
	}
	if len(test.Questions) == 0 {
		return dto.TestResultResponse{}, fmt.Errorf("test has no questions: %w", ErrInvalid)
	}

	course, err := s.courses.GetWithStudents(ctx, test.CourseID, auth.TenantID)
	if err != nil {
		return dto.TestResultResponse{}, notFoundOrInternal(err, "course")
	}
	if !course.HasStudent(auth.PrincipalID) {
		return dto.TestResultResponse{}, fmt.Errorf("test %d: %w", id, ErrNotFound)
	}

	if s.now().Before(test.ScheduledAt) {
		return dto.TestResultResponse{}, fmt.Errorf("test has not started: %w", ErrInvalid)
	}

	var score float64
	correct := 0
	for _, question := range test.Questions {
		answer, ok := payload.Answers[question.ID]
		if !ok || !models.IsValidOption(answer) {
			continue
		}
		if answer == question.CorrectOption {
			score += question.Marks
			correct++
		}
	}
	maxScore := test.MaxScore()

	sheet, err := json.Marshal(payload.Answers)
	if err != nil {
		return dto.TestResultResponse{}, fmt.Errorf("failed to encode answers: %w", err)
	}

	submission := models.Submission{
		ItemType:  models.ItemTypeTest,
		ItemID:    test.ID,
		StudentID: auth.PrincipalID,
		CourseID:  test.CourseID,
		AdminID:   auth.TenantID,
		Text:      string(sheet),
	}
	if err := s.submissions.Upsert(ctx, &submission); err != nil {
		return dto.TestResultResponse{}, err
	}

	grade := models.Marks{
		ItemType:  models.ItemTypeTest,
		ItemID:    test.ID,
		StudentID: auth.PrincipalID,
		TeacherID: test.TeacherID,
		CourseID:  test.CourseID,
		AdminID:   auth.TenantID,
		Score:     score,
		MaxScore:  maxScore,
		Remarks:   "Auto-graded",
	}
	if err := s.marks.Upsert(ctx, &grade); err != nil {
		return dto.TestResultResponse{}, err
	}

	s.logger.Info().
		Uint("test_id", test.ID).
		Uint("student_id", auth.PrincipalID).
		Float64("score", score).
		Float64("max_score", maxScore).
		Msg("test graded")

	s.notifier.Notify(ctx, auth.TenantID, []Recipient{{Kind: models.RoleStudent, ID: auth.PrincipalID}}, Event{
		Category:    models.CategoryGrade,
		Title:       "Test graded",
		Message:     fmt.Sprintf("You scored %.1f out of %.1f on %s.", score, maxScore, test.Title),
		RelatedID:   &test.ID,
		RelatedName: test.Title,
		Metadata:    map[string]any{"score": score, "max_score": maxScore},
	})

	return dto.TestResultResponse{
		TestID:     test.ID,
		Score:      score,
		MaxScore:   maxScore,
		Percentage: grade.Percentage(),
		Correct:    correct,
		Total:      len(test.Questions),
	}, nil
}

func (s *testService) mayViewAnswers(auth AuthContext, test models.Test) bool {
	return auth.IsAdmin() || (auth.IsTeacher() && test.TeacherID == auth.PrincipalID)
}

func (s *testService) toResponses(auth AuthContext, tests []models.Test) []dto.TestResponse {
	responses := make([]dto.TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, dto.NewTestResponse(test, s.mayViewAnswers(auth, test)))
	}
	return responses
}

func buildQuestions(payload []dto.TestQuestionRequest) []models.TestQuestion {
	questions := make([]models.TestQuestion, 0, len(payload))
	for i, question := range payload {
		marks := question.Marks
		if marks <= 0 {
			marks = 1
		}
		questions = append(questions, models.TestQuestion{
			Position:      i + 1,
			Prompt:        question.Prompt,
			OptionA:       question.OptionA,
			OptionB:       question.OptionB,
			OptionC:       question.OptionC,
			OptionD:       question.OptionD,
			CorrectOption: question.CorrectOption,
			Marks:         marks,
		})
	}
	return questions
}
