package repository

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository is the narrow view of the external booking store used
// by the departure-notice job.
type AppointmentRepository interface {
	// ListUpcoming returns confirmed appointments scheduled between from and to.
	ListUpcoming(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error)

	// MarkNotified records that a departure notice was dispatched for the
	// appointment, guarding against duplicates.
	MarkNotified(ctx context.Context, appointmentID uuid.UUID, at time.Time) error
}
