// Package service declares interfaces for external collaborators consumed by
// the use-case layer.
package service

import (
	"context"
	"time"

	"smartqueue/internal/errors"
)

// Failure sentinels for travel-time computation. Transient failures are
// retried once; permanent failures disable the provider for the rest of the
// run; precondition failures skip the subject for this cycle.
var (
	// ErrRouteUnavailable is returned when every provider in the chain failed.
	ErrRouteUnavailable = errors.New("no route time available from any provider")
	// ErrProviderTransient marks timeouts and 5xx-equivalent provider errors.
	ErrProviderTransient = errors.New("transient provider failure")
	// ErrProviderPermanent marks malformed responses and auth failures.
	ErrProviderPermanent = errors.New("permanent provider failure")
	// ErrPositionUnavailable is returned when the subject's position is
	// missing or sharing is disabled.
	ErrPositionUnavailable = errors.New("user position unavailable or sharing disabled")
	// ErrLocalityUnresolved is returned when no reference locality could be
	// resolved for a coordinate.
	ErrLocalityUnresolved = errors.New("no locality resolved for coordinates")
)

// RouteLeg is a normalized travel-time answer from a routing provider.
type RouteLeg struct {
	Minutes    float64
	DistanceKm float64
	// TrafficMinutes is the traffic-aware duration when the provider reports
	// one, zero otherwise.
	TrafficMinutes float64
	// Source names the provider that produced the leg.
	Source string
}

// RouteTimeProvider resolves a travel duration between two coordinates,
// optionally traffic-aware for the given departure time.
type RouteTimeProvider interface {
	// Duration returns the travel leg for the route. Implementations must
	// bound their own I/O with timeouts and never block indefinitely.
	Duration(ctx context.Context, originLat, originLon, destLat, destLon float64, departure time.Time) (*RouteLeg, error)
}
