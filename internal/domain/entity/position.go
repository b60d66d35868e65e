package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserPosition is the last-known location of a customer, overwritten in place
// on every update. One row per user, never historized.
type UserPosition struct {
	UserID            uuid.UUID
	Latitude          float64
	Longitude         float64
	AccuracyMeters    int
	TransportMode     TransportMode
	SharingEnabled    bool
	NearestLocalityID uuid.UUID // derived, recomputed on each update
	UpdatedAt         time.Time
}

// IsFresh reports whether the position was updated within maxAge of now.
func (p *UserPosition) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(p.UpdatedAt) < maxAge
}
