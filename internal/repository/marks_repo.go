package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// MarksFilter narrows marks listings.
type MarksFilter struct {
	ItemType  string
	ItemID    uint
	StudentID uint
	CourseID  uint
}

// MarksRepository defines persistence for grades. Upsert is keyed on the
// unique (item_type, item_id, student_id) triple; re-grading overwrites.
type MarksRepository interface {
	Upsert(ctx context.Context, marks *models.Marks) error
	GetByID(ctx context.Context, id, tenantID uint) (models.Marks, error)
	GetByKey(ctx context.Context, tenantID uint, itemType string, itemID, studentID uint) (models.Marks, error)
	List(ctx context.Context, tenantID uint, filter MarksFilter) ([]models.Marks, error)
	CountByCourse(ctx context.Context, tenantID, courseID uint) (int64, error)
	Save(ctx context.Context, marks *models.Marks) error
}

type marksRepository struct {
	db *gorm.DB
}

// NewMarksRepository constructs a GORM-backed marks repository.
func NewMarksRepository(db *gorm.DB) MarksRepository {
	return &marksRepository{db: db}
}

func (r *marksRepository) Upsert(ctx context.Context, marks *models.Marks) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_type"}, {Name: "item_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"teacher_id", "course_id", "score", "max_score", "remarks", "updated_at",
		}),
	}).Create(marks).Error
}

func (r *marksRepository) GetByID(ctx context.Context, id, tenantID uint) (models.Marks, error) {
	var marks models.Marks
	if err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&marks).Error; err != nil {
		return models.Marks{}, err
	}
	return marks, nil
}

func (r *marksRepository) GetByKey(ctx context.Context, tenantID uint, itemType string, itemID, studentID uint) (models.Marks, error) {
	var marks models.Marks
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND item_type = ? AND item_id = ? AND student_id = ?", tenantID, itemType, itemID, studentID).
		First(&marks).Error; err != nil {
		return models.Marks{}, err
	}
	return marks, nil
}

func (r *marksRepository) List(ctx context.Context, tenantID uint, filter MarksFilter) ([]models.Marks, error) {
	query := r.db.WithContext(ctx).Where("admin_id = ?", tenantID)
	if filter.ItemType != "" {
		query = query.Where("item_type = ?", filter.ItemType)
	}
	if filter.ItemID != 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}

	var marks []models.Marks
	if err := query.Order("updated_at DESC").Find(&marks).Error; err != nil {
		return nil, err
	}
	return marks, nil
}

func (r *marksRepository) CountByCourse(ctx context.Context, tenantID, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Marks{}).
		Where("admin_id = ? AND course_id = ?", tenantID, courseID).
		Count(&count).Error
	return count, err
}

func (r *marksRepository) Save(ctx context.Context, marks *models.Marks) error {
	return r.db.WithContext(ctx).Save(marks).Error
}
