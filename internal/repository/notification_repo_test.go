package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

func TestNotificationRepositoryRecipientScoping(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	batch := []models.Notification{
		{RecipientKind: models.RoleStudent, RecipientID: 8, Category: models.CategoryAssignment, Title: "New assignment", Message: "Sorting", AdminID: 1},
		{RecipientKind: models.RoleStudent, RecipientID: 9, Category: models.CategoryAssignment, Title: "New assignment", Message: "Sorting", AdminID: 1},
		{RecipientKind: models.RoleTeacher, RecipientID: 8, Category: models.CategorySubmission, Title: "New submission", Message: "Sorting", AdminID: 1},
		{RecipientKind: models.RoleStudent, RecipientID: 8, Category: models.CategoryGrade, Title: "Graded", Message: "Sorting", AdminID: 2},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	feed, err := repo.ListByRecipient(ctx, 1, models.RoleStudent, 8, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 1, "same id under another kind or tenant must not leak in")

	unread, err := repo.CountUnread(ctx, 1, models.RoleStudent, 8)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)
}

func TestNotificationRepositoryMarkReadRejectsForeignRows(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	rows := []models.Notification{
		{RecipientKind: models.RoleStudent, RecipientID: 8, Category: models.CategoryGrade, Title: "Graded", Message: "90/100", AdminID: 1},
	}
	require.NoError(t, repo.CreateBatch(ctx, rows))
	id := rows[0].ID
	require.NotZero(t, id)

	err := repo.MarkRead(ctx, 1, models.RoleStudent, 9, id)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "another student cannot read someone else's notification")

	require.NoError(t, repo.MarkRead(ctx, 1, models.RoleStudent, 8, id))

	unread, err := repo.CountUnread(ctx, 1, models.RoleStudent, 8)
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestNotificationRepositoryMarkAllAndDeleteAll(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	batch := []models.Notification{
		{RecipientKind: models.RoleStudent, RecipientID: 8, Category: models.CategoryMeeting, Title: "Class", Message: "Join", AdminID: 1},
		{RecipientKind: models.RoleStudent, RecipientID: 8, Category: models.CategoryMeeting, Title: "Class", Message: "Join", AdminID: 1},
		{RecipientKind: models.RoleStudent, RecipientID: 9, Category: models.CategoryMeeting, Title: "Class", Message: "Join", AdminID: 1},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	require.NoError(t, repo.MarkAllRead(ctx, 1, models.RoleStudent, 8))

	unread, err := repo.CountUnread(ctx, 1, models.RoleStudent, 8)
	require.NoError(t, err)
	require.Zero(t, unread)

	unread, err = repo.CountUnread(ctx, 1, models.RoleStudent, 9)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)

	require.NoError(t, repo.DeleteAll(ctx, 1, models.RoleStudent, 8))

	feed, err := repo.ListByRecipient(ctx, 1, models.RoleStudent, 8, NotificationFilter{})
	require.NoError(t, err)
	require.Empty(t, feed)

	feed, err = repo.ListByRecipient(ctx, 1, models.RoleStudent, 9, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 1)
}
