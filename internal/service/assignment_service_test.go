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

func newAssignmentServiceFixture(t *testing.T) (AssignmentService, *memoryAssignmentRepo, *memoryCourseRepo, *recordingNotifier) {
	t.Helper()
	assignmentRepo := newMemoryAssignmentRepo()
	courseRepo := newMemoryCourseRepo()
	notifier := &recordingNotifier{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewAssignmentService(assignmentRepo, courseRepo, notifier, validate, zerolog.New(io.Discard))
	return svc, assignmentRepo, courseRepo, notifier
}

func TestAssignmentServiceCreateNotifiesEveryEnrolledStudent(t *testing.T) {
	svc, _, courseRepo, notifier := newAssignmentServiceFixture(t)
	ctx := context.Background()

	course := models.Course{
		Name:      "Databases",
		Code:      "CS340",
		AdminID:   1,
		TeacherID: 2,
		Students: []models.Student{
			{ID: 8, Name: "Ada", AdminID: 1},
			{ID: 9, Name: "Bob", AdminID: 1},
		},
	}
	require.NoError(t, courseRepo.Create(ctx, &course))

	teacher := AuthContext{PrincipalID: 2, Role: models.RoleTeacher, TenantID: 1}
	created, err := svc.Create(ctx, teacher, dto.AssignmentCreateRequest{
		Title:    "Normalization",
		DueDate:  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		CourseID: course.ID,
	})
	require.NoError(t, err)

	require.Len(t, notifier.events, 1, "one fanout per created assignment")
	event := notifier.events[0]
	require.Equal(t, models.CategoryAssignment, event.Category)
	require.Equal(t, created.ID, *event.RelatedID)

	require.Equal(t, []Recipient{
		{Kind: models.RoleStudent, ID: 8},
		{Kind: models.RoleStudent, ID: 9},
	}, notifier.recipients[0], "each enrolled student is targeted exactly once")
	require.Equal(t, uint(1), notifier.tenants[0])
}

func TestAssignmentServiceCreateRejectsPastDueDate(t *testing.T) {
	svc, _, courseRepo, notifier := newAssignmentServiceFixture(t)
	ctx := context.Background()

	course := models.Course{Name: "Databases", Code: "CS340", AdminID: 1, TeacherID: 2}
	require.NoError(t, courseRepo.Create(ctx, &course))

	teacher := AuthContext{PrincipalID: 2, Role: models.RoleTeacher, TenantID: 1}
	_, err := svc.Create(ctx, teacher, dto.AssignmentCreateRequest{
		Title:    "Normalization",
		DueDate:  time.Now().Add(-time.Hour).Format(time.RFC3339),
		CourseID: course.ID,
	})
	require.ErrorIs(t, err, ErrInvalid)
	require.Empty(t, notifier.events, "nothing fans out when creation fails")
}

func TestAssignmentServiceCreateRequiresCourseOwnership(t *testing.T) {
	svc, _, courseRepo, notifier := newAssignmentServiceFixture(t)
	ctx := context.Background()

	course := models.Course{Name: "Databases", Code: "CS340", AdminID: 1, TeacherID: 2}
	require.NoError(t, courseRepo.Create(ctx, &course))

	otherTeacher := AuthContext{PrincipalID: 3, Role: models.RoleTeacher, TenantID: 1}
	_, err := svc.Create(ctx, otherTeacher, dto.AssignmentCreateRequest{
		Title:    "Normalization",
		DueDate:  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		CourseID: course.ID,
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, notifier.events)
}
