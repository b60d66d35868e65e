package model

import (
	"time"

	"github.com/google/uuid"
)

// TravelEstimateModel is the GORM-specific struct for the 'travel_estimates'
// table. Rows are append-only and expired by the cleanup job.
type TravelEstimateModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_travel_estimates_on_user_dest"`

	OriginLatitude   float64   `gorm:"type:decimal(10,8);not null"`
	OriginLongitude  float64   `gorm:"type:decimal(11,8);not null"`
	OriginLocalityID uuid.UUID `gorm:"type:uuid"`
	DestLatitude     float64   `gorm:"type:decimal(10,8);not null"`
	DestLongitude    float64   `gorm:"type:decimal(11,8);not null"`
	DestLocalityID   uuid.UUID `gorm:"type:uuid"`
	DestinationID    uuid.UUID `gorm:"type:uuid;not null;index:idx_travel_estimates_on_user_dest"`

	TravelMinutes int     `gorm:"not null"`
	DistanceKm    float64 `gorm:"not null;default:0"`
	TransportMode string  `gorm:"type:varchar(20);not null"`

	TrafficFactor   float64 `gorm:"not null;default:1.0"`
	RouteFactor     float64 `gorm:"not null;default:1.0"`
	WeatherFactor   float64 `gorm:"not null;default:1.0"`
	SafetyMarginMin int     `gorm:"not null;default:0"`

	RecommendedDeparture time.Time
	EstimatedArrival     time.Time

	ConfidenceScore int       `gorm:"not null;default:0"`
	Source          string    `gorm:"type:varchar(50);not null"`
	CreatedAt       time.Time `gorm:"index:idx_travel_estimates_on_created"`
}

// TableName explicitly sets the table name for GORM.
func (TravelEstimateModel) TableName() string {
	return "travel_estimates"
}
