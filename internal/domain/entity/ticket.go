package entity

import "github.com/google/uuid"

// TicketStatus is the lifecycle state of a queue ticket.
type TicketStatus string

const (
	TicketWaiting TicketStatus = "waiting"
	TicketCalled  TicketStatus = "called"
	TicketServed  TicketStatus = "served"
)

// IsActive reports whether the ticket still occupies a queue position.
func (s TicketStatus) IsActive() bool {
	return s == TicketWaiting || s == TicketCalled
}

// Ticket is a queue membership record as seen by the reordering engine.
// The full ticket lifecycle is owned by an external collaborator; only the
// fields the planner needs are modeled here.
type Ticket struct {
	ID       uuid.UUID
	QueueID  uuid.UUID
	UserID   uuid.UUID
	Position int
	Status   TicketStatus
}

// QueueSnapshot is a read-only view of one queue at a point in time.
type QueueSnapshot struct {
	QueueID uuid.UUID
	// DestinationID is the organization the queue serves; estimates are keyed by it.
	DestinationID     uuid.UUID
	DestLatitude      float64
	DestLongitude     float64
	Tickets           []Ticket
	AvgServiceMinutes float64
}

// WaitMinutesAt returns the wait implied by holding the given 1-based position.
func (q *QueueSnapshot) WaitMinutesAt(position int) float64 {
	if position < 1 {
		position = 1
	}

	return float64(position-1) * q.AvgServiceMinutes
}
