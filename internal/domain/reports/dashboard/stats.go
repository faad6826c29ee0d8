// Package dashboard computes the desktop dashboard aggregates: stock
// valuation, sales totals over rolling windows, and stale products.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/domain/documents/order"
	"alcosklad/internal/domain/documents/reception"
	"alcosklad/internal/domain/registers/stock"
)

// staleAfter is how long a product may sit without movement before the
// dashboard flags it.
const staleAfter = 30 * 24 * time.Hour

// SalesTotals sums non-refund order totals over rolling windows ending
// at now.
type SalesTotals struct {
	Day      types.Money `json:"day"`
	Week     types.Money `json:"week"`
	Month    types.Money `json:"month"`
	HalfYear types.Money `json:"halfYear"`
}

// StaleProduct is a product with stock on hand but no movement for more
// than the stale threshold.
type StaleProduct struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
	DaysIdle int             `json:"daysIdle"`
}

// Stats is the dashboard payload.
type Stats struct {
	TotalProducts      int         `json:"totalProducts"`
	TotalStockQuantity int         `json:"totalStockQuantity"`
	TotalStockValue    types.Money `json:"totalStockValue"`
	TotalPurchaseValue types.Money `json:"totalPurchaseValue"`

	// RecentReceptions counts receptions dated within the last month.
	RecentReceptions int `json:"recentReceptions"`

	Sales         SalesTotals    `json:"sales"`
	StaleProducts []StaleProduct `json:"staleProducts"`
}

// Compute derives the dashboard stats from already-loaded collections.
func Compute(products []product.Product, entries []stock.Entry, orders []order.Order, receptions []reception.Reception, now time.Time) Stats {
	stats := Stats{
		TotalProducts:      len(products),
		TotalStockValue:    decimal.Zero,
		TotalPurchaseValue: decimal.Zero,
		Sales: SalesTotals{
			Day:      decimal.Zero,
			Week:     decimal.Zero,
			Month:    decimal.Zero,
			HalfYear: decimal.Zero,
		},
	}

	rows := stock.Aggregate(entries, stock.AggregateOptions{})
	for _, row := range rows {
		stats.TotalStockQuantity += row.Quantity
		stats.TotalStockValue = stats.TotalStockValue.Add(row.StockValue())
		stats.TotalPurchaseValue = stats.TotalPurchaseValue.Add(
			row.Cost.Mul(decimal.NewFromInt(int64(row.Quantity))))
	}

	for _, r := range receptions {
		at := r.EffectiveDate()
		if at.IsZero() {
			continue
		}
		age := now.Sub(at.Time)
		if age >= 0 && age <= 30*24*time.Hour {
			stats.RecentReceptions++
		}
	}

	stats.Sales = salesTotals(orders, now)
	stats.StaleProducts = staleProducts(entries, rows, now)
	return stats
}

func salesTotals(orders []order.Order, now time.Time) SalesTotals {
	totals := SalesTotals{
		Day:      decimal.Zero,
		Week:     decimal.Zero,
		Month:    decimal.Zero,
		HalfYear: decimal.Zero,
	}
	for _, o := range orders {
		if o.IsRefund() || o.Created.IsZero() {
			continue
		}
		age := now.Sub(o.Created.Time)
		if age < 0 || age > 182*24*time.Hour {
			continue
		}
		totals.HalfYear = totals.HalfYear.Add(o.Total)
		if age <= 30*24*time.Hour {
			totals.Month = totals.Month.Add(o.Total)
		}
		if age <= 7*24*time.Hour {
			totals.Week = totals.Week.Add(o.Total)
		}
		if age <= 24*time.Hour {
			totals.Day = totals.Day.Add(o.Total)
		}
	}
	return totals
}

// staleProducts flags aggregated rows whose newest entry movement is
// older than the threshold. Movement is the latest of an entry's update,
// creation, or reception timestamps.
func staleProducts(entries []stock.Entry, rows []stock.Aggregated, now time.Time) []StaleProduct {
	lastMovement := make(map[string]time.Time)
	for _, e := range entries {
		latest := e.Updated.Time
		if e.Created.After(latest) {
			latest = e.Created.Time
		}
		if e.ReceptionDate.After(latest) {
			latest = e.ReceptionDate.Time
		}
		if latest.After(lastMovement[e.Product]) {
			lastMovement[e.Product] = latest
		}
	}

	var stale []StaleProduct
	for _, row := range rows {
		latest, ok := lastMovement[row.Product.ID]
		if !ok || latest.IsZero() {
			continue
		}
		idle := now.Sub(latest)
		if idle <= staleAfter {
			continue
		}
		stale = append(stale, StaleProduct{
			Product:  row.Product,
			Quantity: row.Quantity,
			DaysIdle: int(idle.Hours() / 24),
		})
	}
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].DaysIdle > stale[j].DaysIdle
	})
	return stale
}
