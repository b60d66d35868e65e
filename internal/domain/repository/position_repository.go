package repository

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/errors"

	"github.com/google/uuid"
)

// ErrPositionNotFound is returned when a user has no stored position.
var ErrPositionNotFound = errors.New("user position not found")

// PositionRepository stores the last-known position per user, one row per
// user, overwritten in place.
type PositionRepository interface {
	// FindByUser returns the user's current position.
	// Returns ErrPositionNotFound if the user never shared one.
	FindByUser(ctx context.Context, userID uuid.UUID) (*entity.UserPosition, error)

	// Upsert writes the position, replacing any previous row for the user.
	Upsert(ctx context.Context, position *entity.UserPosition) error

	// ListSharingUpdatedSince returns positions with sharing enabled that were
	// updated at or after the given time.
	ListSharingUpdatedSince(ctx context.Context, since time.Time) ([]*entity.UserPosition, error)

	// UpdateNearestLocality rewrites only the derived nearest-locality column.
	UpdateNearestLocality(ctx context.Context, userID, localityID uuid.UUID) error

	// DisableSharingUntouchedSince turns off sharing for positions not updated
	// since the cutoff. Returns the number of rows changed.
	DisableSharingUntouchedSince(ctx context.Context, cutoff time.Time) (int64, error)
}
