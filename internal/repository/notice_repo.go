package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// NoticeRepository defines tenant-scoped persistence for notices.
type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id, tenantID uint) (models.Notice, error)
	List(ctx context.Context, tenantID uint, targets []string, limit int) ([]models.Notice, error)
	Delete(ctx context.Context, id, tenantID uint) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository constructs a GORM-backed notice repository.
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) GetByID(ctx context.Context, id, tenantID uint) (models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&notice).Error; err != nil {
		return models.Notice{}, err
	}
	return notice, nil
}

func (r *noticeRepository) List(ctx context.Context, tenantID uint, targets []string, limit int) ([]models.Notice, error) {
	query := r.db.WithContext(ctx).Where("admin_id = ?", tenantID)
	if len(targets) > 0 {
		query = query.Where("target IN ?", targets)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notices []models.Notice
	if err := query.Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) Delete(ctx context.Context, id, tenantID uint) error {
	result := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Delete(&models.Notice{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
