package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// AttendanceRepository defines persistence for per-day course registers.
// Upsert replaces the record list for an existing (course, date) pair.
type AttendanceRepository interface {
	Upsert(ctx context.Context, attendance *models.Attendance) error
	GetByCourseAndDate(ctx context.Context, tenantID, courseID uint, date time.Time) (models.Attendance, error)
	ListByCourse(ctx context.Context, tenantID, courseID uint) ([]models.Attendance, error)
	ListByStudent(ctx context.Context, tenantID, studentID uint) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs a GORM-backed attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Upsert(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Attendance
		err := tx.Where("course_id = ? AND date = ?", attendance.CourseID, attendance.Date).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("attendance_id = ?", existing.ID).Delete(&models.AttendanceRecord{}).Error; err != nil {
				return err
			}
			attendance.ID = existing.ID
			attendance.CreatedAt = existing.CreatedAt
			for i := range attendance.Records {
				attendance.Records[i].ID = 0
				attendance.Records[i].AttendanceID = existing.ID
			}
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(attendance).Error
		case err == gorm.ErrRecordNotFound:
			return tx.Create(attendance).Error
		default:
			return err
		}
	})
}

func (r *attendanceRepository) GetByCourseAndDate(ctx context.Context, tenantID, courseID uint, date time.Time) (models.Attendance, error) {
	var attendance models.Attendance
	if err := r.db.WithContext(ctx).
		Preload("Records").
		Where("admin_id = ? AND course_id = ? AND date = ?", tenantID, courseID, date).
		First(&attendance).Error; err != nil {
		return models.Attendance{}, err
	}
	return attendance, nil
}

func (r *attendanceRepository) ListByCourse(ctx context.Context, tenantID, courseID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := r.db.WithContext(ctx).
		Preload("Records").
		Where("admin_id = ? AND course_id = ?", tenantID, courseID).
		Order("date ASC").
		Find(&attendances).Error; err != nil {
		return nil, err
	}
	return attendances, nil
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, tenantID, studentID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := r.db.WithContext(ctx).
		Preload("Records").
		Joins("JOIN attendance_records ON attendance_records.attendance_id = attendances.id").
		Where("attendances.admin_id = ? AND attendance_records.student_id = ?", tenantID, studentID).
		Order("attendances.date ASC").
		Find(&attendances).Error; err != nil {
		return nil, err
	}
	return attendances, nil
}
