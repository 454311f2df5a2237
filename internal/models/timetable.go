package models

import (
	"time"

	"gorm.io/datatypes"
)

// Timetable holds a tenant's weekly grid as day -> period -> text. One
// record exists per tenant; updates replace the grid.
type Timetable struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	AdminID   uint              `gorm:"not null;uniqueIndex" json:"admin_id"`
	Grid      datatypes.JSONMap `gorm:"type:json" json:"grid"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
