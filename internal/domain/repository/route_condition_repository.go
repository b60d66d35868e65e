package repository

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"

	"github.com/google/uuid"
)

// RouteConditionRepository stores observed traffic conditions, one row per
// (source, destination) locality pair.
type RouteConditionRepository interface {
	// FindByRoute returns the condition for the given pair, or nil when no
	// observation exists.
	FindByRoute(ctx context.Context, sourceID, destID uuid.UUID) (*entity.RouteCondition, error)

	// Upsert inserts or replaces the condition for its (source, destination) pair.
	Upsert(ctx context.Context, condition *entity.RouteCondition) error

	// DeleteOlderThan removes conditions last updated before the cutoff.
	// Returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
