package postgres

import (
	"testing"

	"smartqueue/internal/domain/repository"
	"smartqueue/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketRow(position int) model.TicketModel {
	return model.TicketModel{ID: uuid.New(), Position: position, Status: "waiting"}
}

func orderOf(tickets []model.TicketModel) []uuid.UUID {
	ids := make([]uuid.UUID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}

	return ids
}

func TestApplyMoves(t *testing.T) {
	a, b, c, d, e := ticketRow(1), ticketRow(2), ticketRow(3), ticketRow(4), ticketRow(5)
	tickets := []model.TicketModel{a, b, c, d, e}

	t.Run("moves one ticket back", func(t *testing.T) {
		result := applyMoves(tickets, []repository.PositionMove{
			{TicketID: b.ID, NewPosition: 4},
		})

		assert.Equal(t, []uuid.UUID{a.ID, c.ID, d.ID, b.ID, e.ID}, orderOf(result))
	})

	t.Run("moves one ticket forward", func(t *testing.T) {
		result := applyMoves(tickets, []repository.PositionMove{
			{TicketID: d.ID, NewPosition: 2},
		})

		assert.Equal(t, []uuid.UUID{a.ID, d.ID, b.ID, c.ID, e.ID}, orderOf(result))
	})

	t.Run("applies lower targets first", func(t *testing.T) {
		result := applyMoves(tickets, []repository.PositionMove{
			{TicketID: e.ID, NewPosition: 2},
			{TicketID: a.ID, NewPosition: 4},
		})

		assert.Equal(t, []uuid.UUID{b.ID, e.ID, c.ID, a.ID, d.ID}, orderOf(result))
	})

	t.Run("clamps targets to the list bounds", func(t *testing.T) {
		result := applyMoves(tickets, []repository.PositionMove{
			{TicketID: c.ID, NewPosition: 99},
		})

		assert.Equal(t, []uuid.UUID{a.ID, b.ID, d.ID, e.ID, c.ID}, orderOf(result))

		result = applyMoves(tickets, []repository.PositionMove{
			{TicketID: c.ID, NewPosition: 0},
		})

		assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID, d.ID, e.ID}, orderOf(result))
	})

	t.Run("no moves keeps the order", func(t *testing.T) {
		result := applyMoves(tickets, nil)

		require.Len(t, result, 5)
		assert.Equal(t, orderOf(tickets), orderOf(result))
	})

	t.Run("result stays dense after reindex", func(t *testing.T) {
		result := applyMoves(tickets, []repository.PositionMove{
			{TicketID: b.ID, NewPosition: 5},
			{TicketID: d.ID, NewPosition: 1},
		})

		require.Len(t, result, 5)
		seen := map[uuid.UUID]bool{}
		for _, ticket := range result {
			assert.False(t, seen[ticket.ID], "ticket duplicated by reorder")
			seen[ticket.ID] = true
		}
	})
}
