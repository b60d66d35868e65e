package repository

import (
	"context"

	"smartqueue/internal/domain/entity"

	"github.com/google/uuid"
)

// WeatherRepository stores the current weather impact per region.
type WeatherRepository interface {
	// FindByRegion returns the impact record for a region, or nil when none exists.
	FindByRegion(ctx context.Context, regionID uuid.UUID) (*entity.WeatherImpact, error)

	// Upsert inserts or replaces the record for its region.
	Upsert(ctx context.Context, impact *entity.WeatherImpact) error
}
