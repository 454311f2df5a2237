package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByTenant(ctx context.Context, id, tenantID uint) (models.Student, error)
	GetByEmail(ctx context.Context, email string) (models.Student, error)
	GetByResetToken(ctx context.Context, token string) (models.Student, error)
	ExistsByCollegeID(ctx context.Context, tenantID uint, collegeID string) (bool, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]models.Student, error)
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	Save(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id, tenantID uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a GORM-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetByTenant(ctx context.Context, id, tenantID uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetByResetToken(ctx context.Context, token string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("password_reset_token = ?", token).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) ExistsByCollegeID(ctx context.Context, tenantID uint, collegeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("admin_id = ? AND college_id = ?", tenantID, collegeID).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Where("admin_id = ?", tenantID).Count(&count).Error
	return count, err
}

func (r *studentRepository) Save(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id, tenantID uint) error {
	result := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
