package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

func TestCourseRepositoryScopesByTenant(t *testing.T) {
	db := setupTestDB(t, &models.Course{}, &models.Student{})
	repo := NewCourseRepository(db)
	ctx := context.Background()

	first := models.Course{Name: "Algorithms", Code: "CS201", AdminID: 1, TeacherID: 10}
	second := models.Course{Name: "Algorithms", Code: "CS201", AdminID: 2, TeacherID: 20}
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second), "the same code must be usable by a different tenant")

	exists, err := repo.ExistsByCode(ctx, 1, "CS201")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, 3, "CS201")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = repo.GetByID(ctx, first.ID, 2)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "tenant two must not see tenant one's course")

	found, err := repo.GetByID(ctx, first.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "CS201", found.Code)
}

func TestCourseRepositoryEnrollment(t *testing.T) {
	db := setupTestDB(t, &models.Course{}, &models.Student{})
	repo := NewCourseRepository(db)
	ctx := context.Background()

	student := models.Student{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", CollegeID: "S-1", AdminID: 1}
	require.NoError(t, db.Create(&student).Error)

	course := models.Course{Name: "Databases", Code: "CS305", AdminID: 1, TeacherID: 10}
	require.NoError(t, repo.Create(ctx, &course))

	require.NoError(t, repo.AddStudent(ctx, &course, student))

	loaded, err := repo.GetWithStudents(ctx, course.ID, 1)
	require.NoError(t, err)
	require.True(t, loaded.HasStudent(student.ID))

	enrolled, err := repo.ListByStudent(ctx, 1, student.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)

	require.NoError(t, repo.RemoveStudent(ctx, &loaded, student))

	loaded, err = repo.GetWithStudents(ctx, course.ID, 1)
	require.NoError(t, err)
	require.False(t, loaded.HasStudent(student.ID))
}
