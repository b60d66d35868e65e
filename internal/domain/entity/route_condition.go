package entity

import (
	"time"

	"github.com/google/uuid"
)

// RouteState is the qualitative traffic state of a route.
type RouteState string

const (
	RouteStateFree    RouteState = "free"
	RouteStateNormal  RouteState = "normal"
	RouteStateDense   RouteState = "dense"
	RouteStateJammed  RouteState = "jammed"
	RouteStateBlocked RouteState = "blocked"
)

// RouteStateForDelay maps a measured delay factor to a qualitative state.
func RouteStateForDelay(delayFactor float64) RouteState {
	switch {
	case delayFactor >= 2.0:
		return RouteStateJammed
	case delayFactor >= 1.5:
		return RouteStateDense
	case delayFactor >= 1.2:
		return RouteStateNormal
	default:
		return RouteStateFree
	}
}

// RouteCondition is an observed traffic condition between two localities.
// Unique per (source, destination) pair; upserted by the condition refresh job.
type RouteCondition struct {
	SourceLocalityID      uuid.UUID
	DestinationLocalityID uuid.UUID
	State                 RouteState
	TravelMinutes         int
	DistanceKm            float64
	// DelayFactor multiplies a travel-time estimate, within [0.5, 10.0].
	DelayFactor float64
	// Source names the origin of the measurement ("manual" or a provider name).
	Source           string
	ReliabilityScore int // 0-100
	UpdatedAt        time.Time
}

// IsFresh reports whether the condition is younger than maxAge.
// Stale conditions are ignored by the traffic model.
func (c *RouteCondition) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(c.UpdatedAt) < maxAge
}
