package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// SubmissionRepository defines persistence for student submissions. Upsert
// is keyed on the unique (item_type, item_id, student_id) triple so a
// re-submit replaces the earlier record.
type SubmissionRepository interface {
	Upsert(ctx context.Context, submission *models.Submission) error
	GetByKey(ctx context.Context, tenantID uint, itemType string, itemID, studentID uint) (models.Submission, error)
	ListByItem(ctx context.Context, tenantID uint, itemType string, itemID uint) ([]models.Submission, error)
	ListByStudent(ctx context.Context, tenantID, studentID uint) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository constructs a GORM-backed submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_type"}, {Name: "item_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"course_id", "file_url", "text", "link", "updated_at",
		}),
	}).Create(submission).Error
}

func (r *submissionRepository) GetByKey(ctx context.Context, tenantID uint, itemType string, itemID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND item_type = ? AND item_id = ? AND student_id = ?", tenantID, itemType, itemID, studentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByItem(ctx context.Context, tenantID uint, itemType string, itemID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND item_type = ? AND item_id = ?", tenantID, itemType, itemID).
		Order("updated_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, tenantID, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND student_id = ?", tenantID, studentID).
		Order("updated_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
