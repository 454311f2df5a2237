package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// TimetableRepository defines persistence for the per-tenant weekly grid.
type TimetableRepository interface {
	Upsert(ctx context.Context, timetable *models.Timetable) error
	GetByTenant(ctx context.Context, tenantID uint) (models.Timetable, error)
}

type timetableRepository struct {
	db *gorm.DB
}

// NewTimetableRepository constructs a GORM-backed timetable repository.
func NewTimetableRepository(db *gorm.DB) TimetableRepository {
	return &timetableRepository{db: db}
}

func (r *timetableRepository) Upsert(ctx context.Context, timetable *models.Timetable) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"grid", "updated_at"}),
	}).Create(timetable).Error
}

func (r *timetableRepository) GetByTenant(ctx context.Context, tenantID uint) (models.Timetable, error) {
	var timetable models.Timetable
	if err := r.db.WithContext(ctx).Where("admin_id = ?", tenantID).First(&timetable).Error; err != nil {
		return models.Timetable{}, err
	}
	return timetable, nil
}
