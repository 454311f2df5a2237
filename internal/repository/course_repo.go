package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// CourseRepository provides tenant-scoped access to courses and their
// enrollment lists.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id, tenantID uint) (models.Course, error)
	GetWithStudents(ctx context.Context, id, tenantID uint) (models.Course, error)
	ExistsByCode(ctx context.Context, tenantID uint, code string) (bool, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]models.Course, error)
	ListByTeacher(ctx context.Context, tenantID, teacherID uint) ([]models.Course, error)
	ListByStudent(ctx context.Context, tenantID, studentID uint) ([]models.Course, error)
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	Save(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id, tenantID uint) error
	AddStudent(ctx context.Context, course *models.Course, student models.Student) error
	RemoveStudent(ctx context.Context, course *models.Course, student models.Student) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a GORM-backed course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id, tenantID uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&course).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetWithStudents(ctx context.Context, id, tenantID uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Students").
		Where("id = ? AND admin_id = ?", id, tenantID).
		First(&course).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) ExistsByCode(ctx context.Context, tenantID uint, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("admin_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Order("code ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListByTeacher(ctx context.Context, tenantID, teacherID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND teacher_id = ?", tenantID, teacherID).
		Order("code ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListByStudent(ctx context.Context, tenantID, studentID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Joins("JOIN course_students ON course_students.course_id = courses.id").
		Where("courses.admin_id = ? AND course_students.student_id = ?", tenantID, studentID).
		Order("courses.code ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Course{}).Where("admin_id = ?", tenantID).Count(&count).Error
	return count, err
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id, tenantID uint) error {
	result := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Delete(&models.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) AddStudent(ctx context.Context, course *models.Course, student models.Student) error {
	return r.db.WithContext(ctx).Model(course).Association("Students").Append(&student)
}

func (r *courseRepository) RemoveStudent(ctx context.Context, course *models.Course, student models.Student) error {
	return r.db.WithContext(ctx).Model(course).Association("Students").Delete(&student)
}
