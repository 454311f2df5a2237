package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// NotificationFilter narrows a recipient's notification listing.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationRepository defines persistence for fanout notifications.
// CreateBatch inserts all rows in one statement so large fanouts stay cheap.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByRecipient(ctx context.Context, tenantID uint, kind string, recipientID uint, filter NotificationFilter) ([]models.Notification, error)
	CountUnread(ctx context.Context, tenantID uint, kind string, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, tenantID uint, kind string, recipientID, id uint) error
	MarkAllRead(ctx context.Context, tenantID uint, kind string, recipientID uint) error
	Delete(ctx context.Context, tenantID uint, kind string, recipientID, id uint) error
	DeleteAll(ctx context.Context, tenantID uint, kind string, recipientID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a GORM-backed notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepository) recipientQuery(ctx context.Context, tenantID uint, kind string, recipientID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("admin_id = ? AND recipient_kind = ? AND recipient_id = ?", tenantID, kind, recipientID)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, tenantID uint, kind string, recipientID uint, filter NotificationFilter) ([]models.Notification, error) {
	query := r.recipientQuery(ctx, tenantID, kind, recipientID)
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, tenantID uint, kind string, recipientID uint) (int64, error) {
	var count int64
	err := r.recipientQuery(ctx, tenantID, kind, recipientID).
		Model(&models.Notification{}).
		Where("read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, tenantID uint, kind string, recipientID, id uint) error {
	result := r.recipientQuery(ctx, tenantID, kind, recipientID).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, tenantID uint, kind string, recipientID uint) error {
	return r.recipientQuery(ctx, tenantID, kind, recipientID).
		Model(&models.Notification{}).
		Where("read = ?", false).
		Update("read", true).Error
}

func (r *notificationRepository) Delete(ctx context.Context, tenantID uint, kind string, recipientID, id uint) error {
	result := r.recipientQuery(ctx, tenantID, kind, recipientID).Delete(&models.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, tenantID uint, kind string, recipientID uint) error {
	return r.recipientQuery(ctx, tenantID, kind, recipientID).Delete(&models.Notification{}).Error
}
