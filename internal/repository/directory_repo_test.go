package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/models"
)

func TestTeacherRepositoryCollegeIDUniquePerTenant(t *testing.T) {
	db := setupTestDB(t, &models.Teacher{})
	repo := NewTeacherRepository(db)
	ctx := context.Background()

	first := models.Teacher{Name: "Grace", Email: "grace@example.com", PasswordHash: "x", CollegeID: "T-01", AdminID: 1}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.Teacher{Name: "Alan", Email: "alan@example.com", PasswordHash: "x", CollegeID: "T-01", AdminID: 1}
	require.Error(t, repo.Create(ctx, &duplicate), "the index rejects a duplicate college id even when the service check is raced")

	elsewhere := models.Teacher{Name: "Alan", Email: "alan2@example.com", PasswordHash: "x", CollegeID: "T-01", AdminID: 2}
	require.NoError(t, repo.Create(ctx, &elsewhere), "the same college id under another tenant is independent")
}

func TestTeacherRepositoryAllowsBlankCollegeIDs(t *testing.T) {
	db := setupTestDB(t, &models.Teacher{})
	repo := NewTeacherRepository(db)
	ctx := context.Background()

	first := models.Teacher{Name: "Grace", Email: "grace@example.com", PasswordHash: "x", AdminID: 1}
	second := models.Teacher{Name: "Alan", Email: "alan@example.com", PasswordHash: "x", AdminID: 1}
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second), "the partial index ignores rows without a college id")
}

func TestStudentRepositoryCollegeIDUniquePerTenant(t *testing.T) {
	db := setupTestDB(t, &models.Student{})
	repo := NewStudentRepository(db)
	ctx := context.Background()

	first := models.Student{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", CollegeID: "S-01", AdminID: 1}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.Student{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", CollegeID: "S-01", AdminID: 1}
	require.Error(t, repo.Create(ctx, &duplicate))

	exists, err := repo.ExistsByCollegeID(ctx, 1, "S-01")
	require.NoError(t, err)
	require.True(t, exists)

	elsewhere := models.Student{Name: "Cal", Email: "cal@example.com", PasswordHash: "x", CollegeID: "S-01", AdminID: 2}
	require.NoError(t, repo.Create(ctx, &elsewhere))

	blankA := models.Student{Name: "Dee", Email: "dee@example.com", PasswordHash: "x", AdminID: 1}
	blankB := models.Student{Name: "Eli", Email: "eli@example.com", PasswordHash: "x", AdminID: 1}
	require.NoError(t, repo.Create(ctx, &blankA))
	require.NoError(t, repo.Create(ctx, &blankB))
}
