package postgres

import (
	"context"
	"sort"

	"smartqueue/internal/domain/entity"
	domainerrors "smartqueue/internal/domain/errors"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeTicketStatuses = []string{
	string(entity.TicketWaiting),
	string(entity.TicketCalled),
}

// queueRepository implements the domain.QueueRepository interface.
type queueRepository struct {
	db *gorm.DB
}

// NewQueueRepository is the constructor for queueRepository.
func NewQueueRepository(db *gorm.DB) repository.QueueRepository {
	return &queueRepository{db: db}
}

// ListActiveQueues returns snapshots of all open queues with active tickets.
func (repo *queueRepository) ListActiveQueues(ctx context.Context) ([]*entity.QueueSnapshot, error) {
	var queueModels []model.QueueModel
	err := repo.db.WithContext(ctx).
		Where("is_open = ?", true).
		Find(&queueModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list active queues")
	}

	snapshots := make([]*entity.QueueSnapshot, 0, len(queueModels))
	for i := range queueModels {
		snapshot, err := repo.loadSnapshot(ctx, repo.db, &queueModels[i])
		if err != nil {
			return nil, err
		}
		if len(snapshot.Tickets) == 0 {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// GetQueue returns a snapshot of one queue.
// Returns ErrQueueNotFound when the queue does not exist or is closed.
func (repo *queueRepository) GetQueue(ctx context.Context, queueID uuid.UUID) (*entity.QueueSnapshot, error) {
	var queueM model.QueueModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND is_open = ?", queueID, true).
		First(&queueM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithStack(repository.ErrQueueNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find queue")
	}

	return repo.loadSnapshot(ctx, repo.db, &queueM)
}

// ApplyReorder commits the moves and re-sequences every active ticket to a
// dense 1..N ordering within one transaction.
func (repo *queueRepository) ApplyReorder(ctx context.Context, queueID uuid.UUID, moves []repository.PositionMove) error {
	if len(moves) == 0 {
		return nil
	}

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the queue's active tickets for the duration of the reorder.
		var ticketModels []model.TicketModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("queue_id = ? AND status IN ?", queueID, activeTicketStatuses).
			Order("position").
			Find(&ticketModels).Error
		if err != nil {
			return err
		}

		if len(ticketModels) == 0 {
			return errors.WithStack(repository.ErrQueueNotFound)
		}

		// Apply the requested moves to the in-memory ordering, then write a
		// dense 1..N sequence back.
		reordered := applyMoves(ticketModels, moves)

		for i := range reordered {
			newPos := i + 1
			if reordered[i].Position == newPos {
				continue
			}
			err := tx.Model(&model.TicketModel{}).
				Where("id = ?", reordered[i].ID).
				Update("position", newPos).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrQueueNotFound) {
			return err
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to apply queue reorder")
	}

	return nil
}

// applyMoves produces the final ticket ordering: moved tickets land at their
// requested positions, everyone else keeps their relative order.
func applyMoves(tickets []model.TicketModel, moves []repository.PositionMove) []model.TicketModel {
	targets := make(map[uuid.UUID]int, len(moves))
	for _, move := range moves {
		targets[move.TicketID] = move.NewPosition
	}

	remaining := make([]model.TicketModel, 0, len(tickets))
	moved := make([]model.TicketModel, 0, len(moves))
	for _, t := range tickets {
		if _, ok := targets[t.ID]; ok {
			moved = append(moved, t)
		} else {
			remaining = append(remaining, t)
		}
	}

	// Insert moved tickets in ascending target order so earlier insertions do
	// not shift later targets.
	sort.SliceStable(moved, func(i, j int) bool {
		return targets[moved[i].ID] < targets[moved[j].ID]
	})

	result := remaining
	for _, t := range moved {
		pos := targets[t.ID] - 1
		if pos < 0 {
			pos = 0
		}
		if pos > len(result) {
			pos = len(result)
		}
		result = append(result[:pos], append([]model.TicketModel{t}, result[pos:]...)...)
	}

	return result
}

func (repo *queueRepository) loadSnapshot(ctx context.Context, db *gorm.DB, queueM *model.QueueModel) (*entity.QueueSnapshot, error) {
	var ticketModels []model.TicketModel
	err := db.WithContext(ctx).
		Where("queue_id = ? AND status IN ?", queueM.ID, activeTicketStatuses).
		Order("position").
		Find(&ticketModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load queue tickets")
	}

	tickets := make([]entity.Ticket, 0, len(ticketModels))
	for _, t := range ticketModels {
		tickets = append(tickets, entity.Ticket{
			ID:       t.ID,
			QueueID:  t.QueueID,
			UserID:   t.UserID,
			Position: t.Position,
			Status:   entity.TicketStatus(t.Status),
		})
	}

	return &entity.QueueSnapshot{
		QueueID:           queueM.ID,
		DestinationID:     queueM.DestinationID,
		DestLatitude:      queueM.DestLatitude,
		DestLongitude:     queueM.DestLongitude,
		Tickets:           tickets,
		AvgServiceMinutes: queueM.AvgServiceMinutes,
	}, nil
}
