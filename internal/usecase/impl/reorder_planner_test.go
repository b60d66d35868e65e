package impl

import (
	"testing"

	"smartqueue/config"
	"smartqueue/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testPlanner() *reorderPlanner {
	return &reorderPlanner{cfg: &config.ReorderConfig{
		TriggerThresholdMinutes:  15,
		PositionToleranceMinutes: 10,
	}}
}

func snapshotWithTickets(n int, avgServiceMinutes float64) *entity.QueueSnapshot {
	q := &entity.QueueSnapshot{
		QueueID:           uuid.New(),
		DestinationID:     uuid.New(),
		AvgServiceMinutes: avgServiceMinutes,
	}
	for i := 1; i <= n; i++ {
		q.Tickets = append(q.Tickets, entity.Ticket{
			ID:       uuid.New(),
			QueueID:  q.QueueID,
			UserID:   uuid.New(),
			Position: i,
			Status:   entity.TicketWaiting,
		})
	}

	return q
}

func TestReorderPlanner_ShouldReorder(t *testing.T) {
	p := testPlanner()
	queue := snapshotWithTickets(8, 15)
	// Position 5 with 15 min average service implies a 60 min remaining wait.
	ticket := queue.Tickets[4]

	// 50 min of travel against 60 min of wait: arrives early, stays put.
	assert.False(t, p.ShouldReorder(ticket, queue, 50))

	// Exactly at the threshold (75 - 60 = 15) is not yet a trigger.
	assert.False(t, p.ShouldReorder(ticket, queue, 75))

	// 90 min of travel: 30 min late, well past the threshold.
	assert.True(t, p.ShouldReorder(ticket, queue, 90))
}

func TestReorderPlanner_ShouldReorderFrontOfQueue(t *testing.T) {
	p := testPlanner()
	queue := snapshotWithTickets(4, 15)

	// Position 1 has zero wait, so any travel beyond the threshold triggers.
	assert.False(t, p.ShouldReorder(queue.Tickets[0], queue, 10))
	assert.True(t, p.ShouldReorder(queue.Tickets[0], queue, 20))
}

func TestReorderPlanner_OptimalPosition(t *testing.T) {
	p := testPlanner()
	queue := snapshotWithTickets(6, 15)
	// Implied waits per position: 0, 15, 30, 45, 60, 75.

	t.Run("matches the first position within tolerance", func(t *testing.T) {
		// Travel 50: position 4 (wait 45) is the first within the 10 min window.
		assert.Equal(t, 4, p.OptimalPosition(queue.Tickets[1], queue, 50))
	})

	t.Run("takes the position just before wait overshoots", func(t *testing.T) {
		// With 30 min services the waits are 0, 30, 60, ...: travel 45 matches
		// nothing within tolerance, and position 3 (wait 60) overshoots, so
		// position 2 wins.
		slow := snapshotWithTickets(6, 30)

		assert.Equal(t, 2, p.OptimalPosition(slow.Tickets[0], slow, 45))
	})

	t.Run("clamps to the front for immediate arrivals", func(t *testing.T) {
		assert.Equal(t, 1, p.OptimalPosition(queue.Tickets[3], queue, 0))
	})

	t.Run("falls to the back when travel exceeds every wait", func(t *testing.T) {
		assert.Equal(t, 6, p.OptimalPosition(queue.Tickets[2], queue, 120))
	})

	t.Run("empty queue yields the front", func(t *testing.T) {
		empty := &entity.QueueSnapshot{QueueID: uuid.New(), AvgServiceMinutes: 15}

		assert.Equal(t, 1, p.OptimalPosition(entity.Ticket{Position: 1}, empty, 40))
	})
}
