package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// TestFilter narrows test listings.
type TestFilter struct {
	CourseID  uint
	TeacherID uint
}

// TestRepository defines tenant-scoped persistence for tests and their
// question lists.
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id, tenantID uint) (models.Test, error)
	List(ctx context.Context, tenantID uint, filter TestFilter) ([]models.Test, error)
	Save(ctx context.Context, test *models.Test) error
	ReplaceQuestions(ctx context.Context, test *models.Test, questions []models.TestQuestion) error
	Delete(ctx context.Context, id, tenantID uint) error
}

type testRepository struct {
	db *gorm.DB
}

// NewTestRepository instantiates a GORM-backed repository.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) GetByID(ctx context.Context, id, tenantID uint) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND admin_id = ?", id, tenantID).
		First(&test).Error; err != nil {
		return models.Test{}, err
	}
	return test, nil
}

func (r *testRepository) List(ctx context.Context, tenantID uint, filter TestFilter) ([]models.Test, error) {
	query := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("admin_id = ?", tenantID)
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.TeacherID != 0 {
		query = query.Where("teacher_id = ?", filter.TeacherID)
	}

	var tests []models.Test
	if err := query.Order("scheduled_at ASC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *testRepository) Save(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Omit("Questions").Save(test).Error
}

func (r *testRepository) ReplaceQuestions(ctx context.Context, test *models.Test, questions []models.TestQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", test.ID).Delete(&models.TestQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].TestID = test.ID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		test.Questions = questions
		return nil
	})
}

func (r *testRepository) Delete(ctx context.Context, id, tenantID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("admin_id = ?", tenantID).Delete(&models.Test{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("test_id = ?", id).Delete(&models.TestQuestion{}).Error
	})
}
