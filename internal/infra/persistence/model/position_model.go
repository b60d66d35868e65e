package model

import (
	"time"

	"github.com/google/uuid"
)

// UserPositionModel is the GORM-specific struct for the 'user_positions'
// table. One row per user, overwritten in place.
type UserPositionModel struct {
	UserID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Latitude          float64   `gorm:"type:decimal(10,8);not null"`
	Longitude         float64   `gorm:"type:decimal(11,8);not null"`
	AccuracyMeters    int       `gorm:"not null;default:0"`
	TransportMode     string    `gorm:"type:varchar(20);not null"`
	SharingEnabled    bool      `gorm:"not null;default:false;index:idx_user_positions_on_sharing"`
	NearestLocalityID uuid.UUID `gorm:"type:uuid"`
	UpdatedAt         time.Time `gorm:"index:idx_user_positions_on_updated"`
}

// TableName explicitly sets the table name for GORM.
func (UserPositionModel) TableName() string {
	return "user_positions"
}
