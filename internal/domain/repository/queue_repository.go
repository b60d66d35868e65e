package repository

import (
	"context"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/errors"

	"github.com/google/uuid"
)

// ErrQueueNotFound is returned when a queue does not exist or is closed.
var ErrQueueNotFound = errors.New("queue not found")

// PositionMove reassigns one ticket to a new queue position.
type PositionMove struct {
	TicketID    uuid.UUID
	NewPosition int
}

// QueueRepository is the narrow view of the external queue/ticket store this
// engine needs: read members and wait parameters, and commit reorders.
type QueueRepository interface {
	// ListActiveQueues returns snapshots of all open queues with active tickets.
	ListActiveQueues(ctx context.Context) ([]*entity.QueueSnapshot, error)

	// GetQueue returns a snapshot of one queue.
	GetQueue(ctx context.Context, queueID uuid.UUID) (*entity.QueueSnapshot, error)

	// ApplyReorder commits the given moves and re-sequences every active
	// ticket in the queue to a dense, contiguous 1..N ordering. The whole
	// operation is transactional: it either fully applies or fully rolls back.
	ApplyReorder(ctx context.Context, queueID uuid.UUID, moves []PositionMove) error
}
