package entity

import (
	"time"

	"github.com/google/uuid"
)

// DelayRisk classifies how late a customer is relative to the recommended
// departure time of an estimate.
type DelayRisk string

const (
	DelayRiskNone   DelayRisk = "none"
	DelayRiskLow    DelayRisk = "low"
	DelayRiskMedium DelayRisk = "medium"
	DelayRiskHigh   DelayRisk = "high"
)

// TravelEstimate is one computed travel-time estimate for a customer heading
// to a destination. Immutable once created; a newer estimate for the same
// (user, destination) pair supersedes, old rows are expired by the cleanup job.
type TravelEstimate struct {
	ID     uuid.UUID
	UserID uuid.UUID

	OriginLatitude   float64
	OriginLongitude  float64
	OriginLocalityID uuid.UUID
	DestLatitude     float64
	DestLongitude    float64
	DestLocalityID   uuid.UUID
	DestinationID    uuid.UUID // organization / service point

	TravelMinutes int
	DistanceKm    float64
	TransportMode TransportMode

	// Multipliers that were applied on top of the raw duration.
	TrafficFactor   float64
	RouteFactor     float64
	WeatherFactor   float64
	SafetyMarginMin int

	RecommendedDeparture time.Time
	EstimatedArrival     time.Time

	// ConfidenceScore is 0-100, lower when the estimate fell back to the
	// local distance-based computation.
	ConfidenceScore int
	// Source names the provider that produced the raw duration ("internal"
	// when locally computed).
	Source    string
	CreatedAt time.Time
}

// IsFresh reports whether the estimate is young enough to drive decisions.
func (e *TravelEstimate) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.CreatedAt) < maxAge
}

// DelayRisk classifies the lateness of the customer at the given time.
func (e *TravelEstimate) DelayRisk(now time.Time) DelayRisk {
	if !now.After(e.RecommendedDeparture) {
		return DelayRiskNone
	}

	late := now.Sub(e.RecommendedDeparture)
	switch {
	case late > 30*time.Minute:
		return DelayRiskHigh
	case late > 10*time.Minute:
		return DelayRiskMedium
	default:
		return DelayRiskLow
	}
}
