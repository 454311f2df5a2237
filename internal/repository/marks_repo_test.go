package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/models"
)

func TestMarksRepositoryUpsertOverwrites(t *testing.T) {
	db := setupTestDB(t, &models.Marks{})
	repo := NewMarksRepository(db)
	ctx := context.Background()

	first := models.Marks{
		ItemType:  "assignment",
		ItemID:    3,
		StudentID: 8,
		TeacherID: 2,
		CourseID:  5,
		AdminID:   1,
		Score:     40,
		MaxScore:  100,
		Remarks:   "first pass",
	}
	require.NoError(t, repo.Upsert(ctx, &first))

	regraded := first
	regraded.ID = 0
	regraded.Score = 85
	regraded.Remarks = "regraded"
	require.NoError(t, repo.Upsert(ctx, &regraded))

	var count int64
	require.NoError(t, db.Model(&models.Marks{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "re-grading must not create a second row")

	stored, err := repo.GetByKey(ctx, 1, "assignment", 3, 8)
	require.NoError(t, err)
	require.Equal(t, float64(85), stored.Score)
	require.Equal(t, "regraded", stored.Remarks)
}

func TestMarksRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t, &models.Marks{})
	repo := NewMarksRepository(db)
	ctx := context.Background()

	rows := []models.Marks{
		{ItemType: "assignment", ItemID: 1, StudentID: 8, CourseID: 5, AdminID: 1, Score: 50, MaxScore: 100},
		{ItemType: "test", ItemID: 2, StudentID: 8, CourseID: 5, AdminID: 1, Score: 9, MaxScore: 10},
		{ItemType: "assignment", ItemID: 1, StudentID: 9, CourseID: 5, AdminID: 1, Score: 70, MaxScore: 100},
		{ItemType: "assignment", ItemID: 4, StudentID: 8, CourseID: 6, AdminID: 2, Score: 30, MaxScore: 100},
	}
	for i := range rows {
		require.NoError(t, repo.Upsert(ctx, &rows[i]))
	}

	mine, err := repo.List(ctx, 1, MarksFilter{StudentID: 8})
	require.NoError(t, err)
	require.Len(t, mine, 2, "the other tenant's grade must stay invisible")

	byCourse, err := repo.List(ctx, 1, MarksFilter{CourseID: 5})
	require.NoError(t, err)
	require.Len(t, byCourse, 3)

	count, err := repo.CountByCourse(ctx, 1, 5)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}
