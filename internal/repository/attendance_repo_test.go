package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/models"
)

func TestAttendanceRepositoryUpsertReplacesRegister(t *testing.T) {
	db := setupTestDB(t, &models.Attendance{}, &models.AttendanceRecord{})
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	day := models.NormalizeAttendanceDate(time.Now())

	first := models.Attendance{
		CourseID: 4,
		Date:     day,
		MarkedBy: 2,
		AdminID:  1,
		Records: []models.AttendanceRecord{
			{StudentID: 8, Status: models.AttendancePresent},
			{StudentID: 9, Status: models.AttendanceAbsent},
		},
	}
	require.NoError(t, repo.Upsert(ctx, &first))

	corrected := models.Attendance{
		CourseID: 4,
		Date:     day,
		MarkedBy: 2,
		AdminID:  1,
		Records: []models.AttendanceRecord{
			{StudentID: 8, Status: models.AttendancePresent},
			{StudentID: 9, Status: models.AttendancePresent},
		},
	}
	require.NoError(t, repo.Upsert(ctx, &corrected))

	var registers int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&registers).Error)
	require.Equal(t, int64(1), registers, "one register per course and day")

	stored, err := repo.GetByCourseAndDate(ctx, 1, 4, day)
	require.NoError(t, err)
	require.Len(t, stored.Records, 2)
	for _, record := range stored.Records {
		require.Equal(t, models.AttendancePresent, record.Status)
	}
}

func TestAttendanceRepositoryListByStudent(t *testing.T) {
	db := setupTestDB(t, &models.Attendance{}, &models.AttendanceRecord{})
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	today := models.NormalizeAttendanceDate(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	for _, register := range []models.Attendance{
		{CourseID: 4, Date: yesterday, MarkedBy: 2, AdminID: 1, Records: []models.AttendanceRecord{{StudentID: 8, Status: models.AttendancePresent}}},
		{CourseID: 4, Date: today, MarkedBy: 2, AdminID: 1, Records: []models.AttendanceRecord{{StudentID: 9, Status: models.AttendanceAbsent}}},
	} {
		register := register
		require.NoError(t, repo.Upsert(ctx, &register))
	}

	history, err := repo.ListByStudent(ctx, 1, 8)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.True(t, history[0].Date.Equal(yesterday))
}
