package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
)

func newTestServiceFixture(t *testing.T) (*testService, *memoryTestRepo, *memoryCourseRepo, *memorySubmissionRepo, *memoryMarksRepo, *recordingNotifier) {
	t.Helper()
	testRepo := newMemoryTestRepo()
	courseRepo := newMemoryCourseRepo()
	submissionRepo := newMemorySubmissionRepo()
	marksRepo := newMemoryMarksRepo()
	notifier := &recordingNotifier{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	svc := NewTestService(testRepo, courseRepo, submissionRepo, marksRepo, notifier, validate, logger).(*testService)
	return svc, testRepo, courseRepo, submissionRepo, marksRepo, notifier
}

func seedCourseWithStudent(t *testing.T, courses *memoryCourseRepo, tenantID, teacherID, studentID uint) models.Course {
	t.Helper()
	course := models.Course{
		Name:      "Operating Systems",
		Code:      "CS330",
		AdminID:   tenantID,
		TeacherID: teacherID,
		Students:  []models.Student{{ID: studentID, Name: "Ada", AdminID: tenantID}},
	}
	require.NoError(t, courses.Create(context.Background(), &course))
	return course
}

func TestTestServiceSubmitGradesServerSide(t *testing.T) {
	svc, testRepo, courseRepo, submissionRepo, marksRepo, notifier := newTestServiceFixture(t)
	ctx := context.Background()
	course := seedCourseWithStudent(t, courseRepo, 1, 2, 8)

	test := models.Test{
		Title:       "Midterm",
		ScheduledAt: time.Now().Add(-time.Hour),
		TotalMarks:  100,
		CourseID:    course.ID,
		TeacherID:   2,
		AdminID:     1,
		Questions: []models.TestQuestion{
			{Prompt: "Q1", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: models.OptionA, Marks: 2},
			{Prompt: "Q2", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: models.OptionB, Marks: 3},
			{Prompt: "Q3", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: models.OptionC, Marks: 5},
		},
	}
	require.NoError(t, testRepo.Create(ctx, &test))

	student := AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1}
	result, err := svc.Submit(ctx, student, test.ID, dto.TestSubmitRequest{Answers: map[uint]string{
		1: "a",
		2: "c",
		3: "c",
	}})
	require.NoError(t, err)

	require.Equal(t, float64(7), result.Score, "only the correct answers score")
	require.Equal(t, float64(10), result.MaxScore, "achievable total comes from the question marks, not TotalMarks")
	require.Equal(t, 70, result.Percentage)
	require.Equal(t, 2, result.Correct)
	require.Equal(t, 3, result.Total)

	grade, err := marksRepo.GetByKey(ctx, 1, models.ItemTypeTest, test.ID, 8)
	require.NoError(t, err)
	require.Equal(t, "Auto-graded", grade.Remarks)

	sheet, err := submissionRepo.GetByKey(ctx, 1, models.ItemTypeTest, test.ID, 8)
	require.NoError(t, err)
	require.Contains(t, sheet.Text, `"1":"a"`)

	require.Len(t, notifier.events, 1)
	require.Equal(t, models.CategoryGrade, notifier.events[0].Category)
	require.Equal(t, []Recipient{{Kind: models.RoleStudent, ID: 8}}, notifier.recipients[0])
}

func TestTestServiceSubmitResubmitOverwritesGrade(t *testing.T) {
	svc, testRepo, courseRepo, _, marksRepo, _ := newTestServiceFixture(t)
	ctx := context.Background()
	course := seedCourseWithStudent(t, courseRepo, 1, 2, 8)

	test := models.Test{
		Title:       "Quiz",
		ScheduledAt: time.Now().Add(-time.Hour),
		CourseID:    course.ID,
		TeacherID:   2,
		AdminID:     1,
		Questions: []models.TestQuestion{
			{Prompt: "Q1", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: models.OptionA, Marks: 1},
		},
	}
	require.NoError(t, testRepo.Create(ctx, &test))

	student := AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1}

	first, err := svc.Submit(ctx, student, test.ID, dto.TestSubmitRequest{Answers: map[uint]string{1: "b"}})
	require.NoError(t, err)
	require.Zero(t, first.Score)

	second, err := svc.Submit(ctx, student, test.ID, dto.TestSubmitRequest{Answers: map[uint]string{1: "a"}})
	require.NoError(t, err)
	require.Equal(t, float64(1), second.Score)

	require.Len(t, marksRepo.marks, 1, "resubmitting replaces the grade instead of adding one")
	grade, err := marksRepo.GetByKey(ctx, 1, models.ItemTypeTest, test.ID, 8)
	require.NoError(t, err)
	require.Equal(t, float64(1), grade.Score)
}

func TestTestServiceSubmitGuards(t *testing.T) {
	svc, testRepo, courseRepo, _, _, _ := newTestServiceFixture(t)
	ctx := context.Background()
	course := seedCourseWithStudent(t, courseRepo, 1, 2, 8)

	test := models.Test{
		Title:       "Final",
		ScheduledAt: time.Now().Add(time.Hour),
		CourseID:    course.ID,
		TeacherID:   2,
		AdminID:     1,
		Questions: []models.TestQuestion{
			{Prompt: "Q1", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: models.OptionA, Marks: 1},
		},
	}
	require.NoError(t, testRepo.Create(ctx, &test))

	answers := dto.TestSubmitRequest{Answers: map[uint]string{1: "a"}}

	teacher := AuthContext{PrincipalID: 2, Role: models.RoleTeacher, TenantID: 1}
	_, err := svc.Submit(ctx, teacher, test.ID, answers)
	require.ErrorIs(t, err, ErrForbidden)

	outsider := AuthContext{PrincipalID: 99, Role: models.RoleStudent, TenantID: 1}
	_, err = svc.Submit(ctx, outsider, test.ID, answers)
	require.ErrorIs(t, err, ErrNotFound, "a student outside the course learns nothing beyond not found")

	enrolled := AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1}
	_, err = svc.Submit(ctx, enrolled, test.ID, answers)
	require.ErrorIs(t, err, ErrInvalid, "submitting before the scheduled start is rejected")
}

func TestTestServiceGetStripsAnswersForStudents(t *testing.T) {
	svc, testRepo, courseRepo, _, _, _ := newTestServiceFixture(t)
	ctx := context.Background()
	course := seedCourseWithStudent(t, courseRepo, 1, 2, 8)

	test := models.Test{
		Title:       "Quiz",
		ScheduledAt: time.Now().Add(time.Hour),
		CourseID:    course.ID,
		TeacherID:   2,
		AdminID:     1,
		Questions: []models.TestQuestion{
			{Prompt: "Q1", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: models.OptionA, Marks: 1},
		},
	}
	require.NoError(t, testRepo.Create(ctx, &test))

	asStudent, err := svc.Get(ctx, AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 1}, test.ID)
	require.NoError(t, err)
	require.Len(t, asStudent.Questions, 1)
	require.Empty(t, asStudent.Questions[0].CorrectOption)

	asOwner, err := svc.Get(ctx, AuthContext{PrincipalID: 2, Role: models.RoleTeacher, TenantID: 1}, test.ID)
	require.NoError(t, err)
	require.Equal(t, models.OptionA, asOwner.Questions[0].CorrectOption)
}
