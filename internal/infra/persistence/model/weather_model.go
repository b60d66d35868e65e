package model

import (
	"time"

	"github.com/google/uuid"
)

// WeatherImpactModel is the GORM-specific struct for the 'weather_impacts'
// table. One row per region, overwritten on refresh.
type WeatherImpactModel struct {
	RegionID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Condition    string    `gorm:"type:varchar(20);not null"`
	ImpactFactor float64   `gorm:"not null;default:1.0"`
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (WeatherImpactModel) TableName() string {
	return "weather_impacts"
}
