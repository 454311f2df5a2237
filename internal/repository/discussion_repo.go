package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// DiscussionRepository defines persistence for course message boards.
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	GetByID(ctx context.Context, id, tenantID uint) (models.Discussion, error)
	ListByCourse(ctx context.Context, tenantID, courseID uint, limit int) ([]models.Discussion, error)
	Delete(ctx context.Context, id, tenantID uint) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository constructs a GORM-backed discussion repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

func (r *discussionRepository) GetByID(ctx context.Context, id, tenantID uint) (models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&discussion).Error; err != nil {
		return models.Discussion{}, err
	}
	return discussion, nil
}

func (r *discussionRepository) ListByCourse(ctx context.Context, tenantID, courseID uint, limit int) ([]models.Discussion, error) {
	query := r.db.WithContext(ctx).Where("admin_id = ? AND course_id = ?", tenantID, courseID)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var discussions []models.Discussion
	if err := query.Order("created_at ASC").Find(&discussions).Error; err != nil {
		return nil, err
	}
	return discussions, nil
}

func (r *discussionRepository) Delete(ctx context.Context, id, tenantID uint) error {
	result := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Delete(&models.Discussion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
