package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// TeacherRepository provides access to teacher records.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	GetByTenant(ctx context.Context, id, tenantID uint) (models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (models.Teacher, error)
	GetByResetToken(ctx context.Context, token string) (models.Teacher, error)
	ExistsByCollegeID(ctx context.Context, tenantID uint, collegeID string) (bool, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]models.Teacher, error)
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	Save(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id, tenantID uint) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a GORM-backed teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByTenant(ctx context.Context, id, tenantID uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByEmail(ctx context.Context, email string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByResetToken(ctx context.Context, token string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("password_reset_token = ?", token).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) ExistsByCollegeID(ctx context.Context, tenantID uint, collegeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("admin_id = ? AND college_id = ?", tenantID, collegeID).
		Count(&count).Error
	return count > 0, err
}

func (r *teacherRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Order("name ASC").Find(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *teacherRepository) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Teacher{}).Where("admin_id = ?", tenantID).Count(&count).Error
	return count, err
}

func (r *teacherRepository) Save(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Save(teacher).Error
}

func (r *teacherRepository) Delete(ctx context.Context, id, tenantID uint) error {
	result := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Delete(&models.Teacher{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
