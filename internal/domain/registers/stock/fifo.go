package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"alcosklad/internal/core/apperror"
	"alcosklad/internal/core/types"
)

// Deduction describes how much to take from one batch entry when
// consuming stock oldest-first.
type Deduction struct {
	EntryID     string      `json:"entryId"`
	BatchNumber string      `json:"batchNumber,omitempty"`
	Quantity    int         `json:"quantity"`
	Remaining   int         `json:"remaining"`
	CostPerUnit types.Money `json:"costPerUnit"`
}

// PlanFIFO distributes a consumption of quantity units across the given
// batch entries, oldest reception first. Entries with no positive
// quantity are skipped. Returns InsufficientStock when the batches do
// not cover the request; no partial plan is returned in that case.
func PlanFIFO(productID string, entries []Entry, quantity int) ([]Deduction, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}

	batches := sortBatches(entries)

	available := 0
	for _, e := range batches {
		available += e.Quantity
	}
	if available < quantity {
		return nil, apperror.NewInsufficientStock(productID, quantity, available)
	}

	var plan []Deduction
	left := quantity
	for _, e := range batches {
		if left == 0 {
			break
		}
		take := e.Quantity
		if take > left {
			take = left
		}
		plan = append(plan, Deduction{
			EntryID:     e.ID,
			BatchNumber: e.BatchNumber,
			Quantity:    take,
			Remaining:   e.Quantity - take,
			CostPerUnit: batchCost(e),
		})
		left -= take
	}
	return plan, nil
}

// WeightedAverageCost returns the quantity-weighted purchase price across
// the given batches. Zero when no batch holds positive stock.
func WeightedAverageCost(entries []Entry) types.Money {
	total := decimal.Zero
	units := 0
	for _, e := range entries {
		if e.Quantity <= 0 {
			continue
		}
		total = total.Add(batchCost(e).Mul(decimal.NewFromInt(int64(e.Quantity))))
		units += e.Quantity
	}
	if units == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(units)))
}

// sortBatches orders consumable entries oldest reception first. Entries
// without a reception date sort last (treated as newest), ties break on
// creation time.
func sortBatches(entries []Entry) []Entry {
	batches := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Quantity > 0 {
			batches = append(batches, e)
		}
	}
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ReceptionDate.IsZero() != b.ReceptionDate.IsZero():
			return !a.ReceptionDate.IsZero()
		case !a.ReceptionDate.Equal(b.ReceptionDate.Time):
			return a.ReceptionDate.Before(b.ReceptionDate.Time)
		default:
			return a.Created.Before(b.Created.Time)
		}
	})
	return batches
}

func batchCost(e Entry) types.Money {
	if e.CostPerUnit.IsPositive() {
		return e.CostPerUnit
	}
	return e.ResolvedCost()
}
