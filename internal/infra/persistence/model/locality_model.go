package model

import (
	"time"

	"github.com/google/uuid"
)

// LocalityModel is the GORM-specific struct for the 'localities' table.
type LocalityModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	RegionID         uuid.UUID `gorm:"type:uuid;not null;index:idx_localities_on_region"`
	Name             string    `gorm:"type:varchar(150);not null"`
	Latitude         float64   `gorm:"type:decimal(10,8);not null"`
	Longitude        float64   `gorm:"type:decimal(11,8);not null"`
	Population       int       `gorm:"not null;default:0"`
	CongestionFactor float64   `gorm:"not null;default:1.0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (LocalityModel) TableName() string {
	return "localities"
}
