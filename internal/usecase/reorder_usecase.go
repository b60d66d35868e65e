package usecase

import (
	"smartqueue/internal/domain/entity"
)

// ReorderDecision is the planner's verdict for one ticket.
type ReorderDecision struct {
	Ticket        entity.Ticket
	TravelMinutes float64
	WaitMinutes   float64
	Move          bool
	TargetPos     int
}

// ReorderPlanner decides whether and where to move waiting tickets.
// Pure computation; the caller commits positions through the queue store.
type ReorderPlanner interface {
	// ShouldReorder reports whether the ticket's travel time exceeds its
	// remaining wait by more than the configured threshold.
	ShouldReorder(ticket entity.Ticket, queue *entity.QueueSnapshot, travelMinutes float64) bool

	// OptimalPosition returns the first position whose implied wait is within
	// tolerance of the travel time, clamped to a minimum of 1.
	OptimalPosition(ticket entity.Ticket, queue *entity.QueueSnapshot, travelMinutes float64) int
}
