package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcosklad/internal/core/apperror"
	"alcosklad/internal/core/types"
	"alcosklad/internal/recordstore"
)

func batch(id string, qty int, cost float64, received time.Time) Entry {
	return Entry{
		ID:            id,
		Product:       "p1",
		Supplier:      "c1",
		Quantity:      qty,
		CostPerUnit:   types.NewMoney(cost),
		BatchNumber:   "B-" + id,
		ReceptionDate: recordstore.Time{Time: received},
	}
}

func TestPlanFIFO_ConsumesOldestFirst(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Deliberately out of order.
	entries := []Entry{
		batch("b2", 5, 110, feb),
		batch("b1", 4, 100, jan),
		batch("b3", 8, 120, mar),
	}

	plan, err := PlanFIFO("p1", entries, 7)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, "b1", plan[0].EntryID)
	assert.Equal(t, 4, plan[0].Quantity)
	assert.Equal(t, 0, plan[0].Remaining)
	assert.True(t, plan[0].CostPerUnit.Equal(types.NewMoney(100)))

	assert.Equal(t, "b2", plan[1].EntryID)
	assert.Equal(t, 3, plan[1].Quantity)
	assert.Equal(t, 2, plan[1].Remaining)
}

func TestPlanFIFO_InsufficientStock(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	entries := []Entry{batch("b1", 3, 100, jan)}

	_, err := PlanFIFO("p1", entries, 5)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 5, appErr.Details["requested"])
	assert.Equal(t, 3, appErr.Details["available"])
}

func TestPlanFIFO_SkipsEmptyBatchesAndRejectsBadQuantity(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		batch("empty", 0, 100, jan),
		batch("b1", 6, 100, feb),
	}

	plan, err := PlanFIFO("p1", entries, 2)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "b1", plan[0].EntryID)

	_, err = PlanFIFO("p1", entries, 0)
	require.Error(t, err)
}

func TestPlanFIFO_UndatedBatchesConsumedLast(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "manual", Product: "p1", Supplier: "c1", Quantity: 5},
		batch("b1", 2, 100, jan),
	}

	plan, err := PlanFIFO("p1", entries, 3)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "b1", plan[0].EntryID)
	assert.Equal(t, "manual", plan[1].EntryID)
	assert.Equal(t, 1, plan[1].Quantity)
}

func TestWeightedAverageCost(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	avg := WeightedAverageCost([]Entry{
		batch("b1", 2, 100, jan),
		batch("b2", 6, 120, feb),
		batch("gone", 0, 500, feb),
	})
	// (2×100 + 6×120) / 8 = 115
	assert.True(t, avg.Equal(types.NewMoney(115)), "got %s", avg)

	assert.True(t, WeightedAverageCost(nil).IsZero())
}
