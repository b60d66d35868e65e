package impl

import (
	"math"

	"smartqueue/config"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/usecase"
)

type reorderPlanner struct {
	cfg *config.ReorderConfig
}

// NewReorderPlanner builds the planner with the configured thresholds.
func NewReorderPlanner(cfg *config.Config) usecase.ReorderPlanner {
	return &reorderPlanner{cfg: cfg.Reorder}
}

// ShouldReorder is true iff the customer would arrive meaningfully later than
// their turn: travel exceeds remaining wait by more than the threshold.
func (p *reorderPlanner) ShouldReorder(ticket entity.Ticket, queue *entity.QueueSnapshot, travelMinutes float64) bool {
	remainingWait := queue.WaitMinutesAt(ticket.Position)

	return travelMinutes-remainingWait > p.cfg.TriggerThresholdMinutes
}

// OptimalPosition is a local greedy search: positions are scanned in
// increasing order and the first whose implied wait is within tolerance of
// the travel time wins; failing that, the position just before wait first
// exceeds travel, clamped to 1. Positions are recomputed frequently, so a
// global optimum is not needed; ties leave order unchanged.
func (p *reorderPlanner) OptimalPosition(ticket entity.Ticket, queue *entity.QueueSnapshot, travelMinutes float64) int {
	total := len(queue.Tickets)
	if total == 0 {
		return 1
	}

	for pos := 1; pos <= total; pos++ {
		wait := queue.WaitMinutesAt(pos)

		if math.Abs(wait-travelMinutes) < p.cfg.PositionToleranceMinutes {
			return pos
		}

		if wait > travelMinutes {
			if pos <= 1 {
				return 1
			}

			return pos - 1
		}
	}

	// Every position's wait is below the travel time: take the last one.
	return total
}
