package impl

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"smartqueue/config"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"

	"github.com/google/uuid"
)

// queueLocks serializes reorder application per queue. Two concurrent dense
// reindexes of the same queue would corrupt position uniqueness; contention
// stays local to one queue.
type queueLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newQueueLocks() *queueLocks {
	return &queueLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *queueLocks) forQueue(queueID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[queueID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[queueID] = lock
	}

	return lock
}

type reorderService struct {
	cfg          *config.EstimatorConfig
	planner      usecase.ReorderPlanner
	queueRepo    repository.QueueRepository
	estimateRepo repository.EstimateRepository
	locks        *queueLocks
	logger       *slog.Logger
	now          func() time.Time
}

// NewReorderEvaluator builds the periodic reorder evaluation job.
func NewReorderEvaluator(
	cfg *config.Config,
	planner usecase.ReorderPlanner,
	queueRepo repository.QueueRepository,
	estimateRepo repository.EstimateRepository,
	logger *slog.Logger,
) usecase.ReorderEvaluator {
	return &reorderService{
		cfg:          cfg.Estimator,
		planner:      planner,
		queueRepo:    queueRepo,
		estimateRepo: estimateRepo,
		locks:        newQueueLocks(),
		logger:       logger,
		now:          time.Now,
	}
}

// EvaluateReorders plans moves for every active queue and commits them. One
// queue's failure never blocks the others.
func (s *reorderService) EvaluateReorders(ctx context.Context) (usecase.JobReport, error) {
	var report usecase.JobReport

	queues, err := s.queueRepo.ListActiveQueues(ctx)
	if err != nil {
		return report, errors.Wrap(err, "failed to list active queues")
	}

	for _, queue := range queues {
		if ctx.Err() != nil {
			return report, errors.Wrap(ctx.Err(), "reorder evaluation canceled")
		}

		moved, err := s.evaluateQueue(ctx, queue)
		if err != nil {
			s.logger.Error("queue reorder failed",
				slog.String("queue_id", queue.QueueID.String()),
				slog.Any("error", err),
			)
			report.Failed++

			continue
		}

		if moved > 0 {
			report.Processed++
		} else {
			report.Skipped++
		}
	}

	return report, nil
}

func (s *reorderService) evaluateQueue(ctx context.Context, queue *entity.QueueSnapshot) (int, error) {
	lock := s.locks.forQueue(queue.QueueID)
	lock.Lock()
	defer lock.Unlock()

	decisions := s.planQueue(ctx, queue)
	if len(decisions) == 0 {
		return 0, nil
	}

	// Apply lower target positions first so cascading shifts stay predictable.
	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].TargetPos < decisions[j].TargetPos
	})

	moves := make([]repository.PositionMove, 0, len(decisions))
	for _, d := range decisions {
		moves = append(moves, repository.PositionMove{
			TicketID:    d.Ticket.ID,
			NewPosition: d.TargetPos,
		})
	}

	// ApplyReorder commits the moves and the dense reindex in one transaction.
	if err := s.queueRepo.ApplyReorder(ctx, queue.QueueID, moves); err != nil {
		return 0, errors.Wrap(err, "failed to apply reorder")
	}

	s.logger.Info("queue reordered",
		slog.String("queue_id", queue.QueueID.String()),
		slog.Int("moves", len(moves)),
	)

	return len(moves), nil
}

// planQueue collects the tickets whose fresh estimates warrant a move.
func (s *reorderService) planQueue(ctx context.Context, queue *entity.QueueSnapshot) []usecase.ReorderDecision {
	var decisions []usecase.ReorderDecision

	now := s.now()
	for _, ticket := range queue.Tickets {
		if !ticket.Status.IsActive() {
			continue
		}

		estimate, err := s.estimateRepo.FindLatest(ctx, ticket.UserID, queue.DestinationID)
		if err != nil || estimate == nil {
			continue
		}
		// Stale estimates never drive reorder decisions.
		if !estimate.IsFresh(now, s.cfg.EstimateMaxAge) {
			continue
		}

		travel := float64(estimate.TravelMinutes)
		if !s.planner.ShouldReorder(ticket, queue, travel) {
			continue
		}

		target := s.planner.OptimalPosition(ticket, queue, travel)
		if target == ticket.Position {
			continue
		}

		decisions = append(decisions, usecase.ReorderDecision{
			Ticket:        ticket,
			TravelMinutes: travel,
			WaitMinutes:   queue.WaitMinutesAt(ticket.Position),
			Move:          true,
			TargetPos:     target,
		})
	}

	return decisions
}
