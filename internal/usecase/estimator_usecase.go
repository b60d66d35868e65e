// Package usecase declares the application-facing interfaces of the
// geolocation queue engine.
package usecase

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"

	"github.com/google/uuid"
)

// EstimateInput carries everything needed for one travel-time estimation.
type EstimateInput struct {
	UserID        uuid.UUID
	OriginLat     float64
	OriginLon     float64
	DestLat       float64
	DestLon       float64
	TransportMode entity.TransportMode
	DestinationID uuid.UUID
	Departure     time.Time
}

// TravelEstimator computes and persists travel-time estimates.
type TravelEstimator interface {
	// Estimate runs the full estimation pipeline and persists exactly one new
	// estimate row. Returns service.ErrLocalityUnresolved or
	// service.ErrPositionUnavailable on precondition failures.
	Estimate(ctx context.Context, input EstimateInput) (*entity.TravelEstimate, error)

	// EstimateForUser resolves the user's shared position and transport mode,
	// then delegates to Estimate. Returns service.ErrPositionUnavailable when
	// the position is missing or sharing is disabled.
	EstimateForUser(ctx context.Context, userID, destinationID uuid.UUID, destLat, destLon float64, departure time.Time) (*entity.TravelEstimate, error)
}

// TrafficModel produces deterministic congestion multipliers.
type TrafficModel interface {
	// FactorForTime combines the hour-of-day and day-of-week tables.
	FactorForTime(departure time.Time) float64

	// FactorForRoute resolves the multiplier for a locality pair, degrading
	// from fresh route condition to locality baselines to a default.
	FactorForRoute(ctx context.Context, origin, dest *entity.Locality) float64

	// IsRushHour reports whether the time falls inside a configured rush window.
	IsRushHour(at time.Time) bool
}
