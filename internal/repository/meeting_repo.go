package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// MeetingFilter narrows meeting listings.
type MeetingFilter struct {
	CourseID  uint
	TeacherID uint
	Status    string
}

// MeetingRepository defines tenant-scoped persistence for meetings.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	GetByID(ctx context.Context, id, tenantID uint) (models.Meeting, error)
	List(ctx context.Context, tenantID uint, filter MeetingFilter) ([]models.Meeting, error)
	Save(ctx context.Context, meeting *models.Meeting) error
	Delete(ctx context.Context, id, tenantID uint) error
	AddAttendee(ctx context.Context, meeting *models.Meeting, student models.Student) error
}

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository constructs a GORM-backed meeting repository.
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &meetingRepository{db: db}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *meetingRepository) GetByID(ctx context.Context, id, tenantID uint) (models.Meeting, error) {
	var meeting models.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("id = ? AND admin_id = ?", id, tenantID).
		First(&meeting).Error; err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

func (r *meetingRepository) List(ctx context.Context, tenantID uint, filter MeetingFilter) ([]models.Meeting, error) {
	query := r.db.WithContext(ctx).Where("admin_id = ?", tenantID)
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.TeacherID != 0 {
		query = query.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var meetings []models.Meeting
	if err := query.Order("scheduled_time ASC").Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *meetingRepository) Save(ctx context.Context, meeting *models.Meeting) error {
	return r.db.WithContext(ctx).Omit("Attendees").Save(meeting).Error
}

func (r *meetingRepository) Delete(ctx context.Context, id, tenantID uint) error {
	result := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).Delete(&models.Meeting{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *meetingRepository) AddAttendee(ctx context.Context, meeting *models.Meeting, student models.Student) error {
	return r.db.WithContext(ctx).Model(meeting).Association("Attendees").Append(&student)
}
