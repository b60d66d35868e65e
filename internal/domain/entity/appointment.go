package entity

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a confirmed booking whose customer may need a departure
// reminder. Booking management itself is an external collaborator.
type Appointment struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DestinationID uuid.UUID
	DestLatitude  float64
	DestLongitude float64
	ScheduledAt   time.Time
	// LastNotifiedAt is set when a departure notice has been dispatched,
	// guarding against duplicate reminders.
	LastNotifiedAt *time.Time
}
