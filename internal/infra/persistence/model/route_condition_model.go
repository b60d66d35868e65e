package model

import (
	"time"

	"github.com/google/uuid"
)

// RouteConditionModel is the GORM-specific struct for the 'route_conditions'
// table, keyed by the (source, destination) locality pair.
type RouteConditionModel struct {
	SourceLocalityID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	DestinationLocalityID uuid.UUID `gorm:"type:uuid;primaryKey"`
	State                 string    `gorm:"type:varchar(20);not null"`
	TravelMinutes         int       `gorm:"not null;default:0"`
	DistanceKm            float64   `gorm:"not null;default:0"`
	DelayFactor           float64   `gorm:"not null;default:1.0"`
	Source                string    `gorm:"type:varchar(50);not null"`
	ReliabilityScore      int       `gorm:"not null;default:0"`
	UpdatedAt             time.Time `gorm:"index:idx_route_conditions_on_updated"`
}

// TableName explicitly sets the table name for GORM.
func (RouteConditionModel) TableName() string {
	return "route_conditions"
}
