package repository

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"

	"github.com/google/uuid"
)

// EstimateRepository stores travel-time estimates. Rows are append-only:
// a fresh estimate supersedes older ones, which are removed by the cleanup job.
type EstimateRepository interface {
	// Create persists exactly one new estimate row.
	Create(ctx context.Context, estimate *entity.TravelEstimate) error

	// FindLatest returns the newest estimate for a (user, destination) pair,
	// or nil when none exists.
	FindLatest(ctx context.Context, userID, destinationID uuid.UUID) (*entity.TravelEstimate, error)

	// DeleteOlderThan removes estimates created before the cutoff.
	// Returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
