package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/product"
)

// CityQuantity is one city's share of an aggregated row.
type CityQuantity struct {
	SupplierID   string `json:"supplierId"`
	SupplierName string `json:"supplierName"`
	Quantity     int    `json:"quantity"`
}

// Aggregated is one logical stock row: a product with its total quantity
// summed across cities and a per-city breakdown.
type Aggregated struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`

	// Cost is the resolved purchase price: the first entry-level override
	// seen, else the product's cost.
	Cost types.Money `json:"cost"`

	// CityBreakdown lists each contributing city with positive stock,
	// sorted by quantity descending.
	CityBreakdown []CityQuantity `json:"cityBreakdown"`
}

// StockValue returns quantity × sale price.
func (a Aggregated) StockValue() types.Money {
	return a.Product.Price.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// MarginValue returns quantity × (sale price − resolved cost).
func (a Aggregated) MarginValue() types.Money {
	return a.Product.Price.Sub(a.Cost).Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// AggregateOptions tunes Aggregate.
type AggregateOptions struct {
	// IncludeZeroTotals keeps rows whose total quantity is not positive.
	// Used by stale-product queries; the default view hides them.
	IncludeZeroTotals bool
}

// Aggregate collapses raw stock entries into one row per product.
// Fragmented entries for the same (product, city) pair are summed
// transparently. Entries whose product expand is missing still count,
// under a bare-id stub product. Output is sorted by product name, stubs
// last.
func Aggregate(entries []Entry, opts AggregateOptions) []Aggregated {
	type cityAcc struct {
		name     string
		quantity int
	}
	type productAcc struct {
		product  product.Product
		resolved bool
		quantity int
		cost     types.Money
		cities   map[string]*cityAcc
		order    []string
	}

	byProduct := make(map[string]*productAcc)
	var productOrder []string

	for _, e := range entries {
		acc, ok := byProduct[e.Product]
		if !ok {
			acc = &productAcc{
				product: product.Stub(e.Product),
				cities:  make(map[string]*cityAcc),
			}
			byProduct[e.Product] = acc
			productOrder = append(productOrder, e.Product)
		}

		// The first entry carrying an expanded product wins; later stubs
		// never downgrade it.
		if !acc.resolved && e.Expand.Product != nil {
			acc.product = *e.Expand.Product
			acc.resolved = true
		}
		if !acc.cost.IsPositive() {
			acc.cost = e.ResolvedCost()
		}

		acc.quantity += e.Quantity

		city, ok := acc.cities[e.Supplier]
		if !ok {
			city = &cityAcc{}
			acc.cities[e.Supplier] = city
			acc.order = append(acc.order, e.Supplier)
		}
		city.quantity += e.Quantity
		if city.name == "" {
			city.name = e.SupplierName()
		}
	}

	out := make([]Aggregated, 0, len(byProduct))
	for _, productID := range productOrder {
		acc := byProduct[productID]
		if acc.quantity <= 0 && !opts.IncludeZeroTotals {
			continue
		}

		row := Aggregated{
			Product:  acc.product,
			Quantity: acc.quantity,
			Cost:     acc.cost,
		}
		for _, supplierID := range acc.order {
			city := acc.cities[supplierID]
			if city.quantity <= 0 {
				continue
			}
			row.CityBreakdown = append(row.CityBreakdown, CityQuantity{
				SupplierID:   supplierID,
				SupplierName: city.name,
				Quantity:     city.quantity,
			})
		}
		sort.SliceStable(row.CityBreakdown, func(i, j int) bool {
			return row.CityBreakdown[i].Quantity > row.CityBreakdown[j].Quantity
		})
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Product, out[j].Product
		if (a.Name == "") != (b.Name == "") {
			return a.Name != ""
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out
}

// CurrentByCity sums positive quantities per supplier id across all
// entries. This is the snapshot the reconciliation engine reconstructs
// history from.
func CurrentByCity(entries []Entry) map[string]int {
	totals := make(map[string]int)
	for _, e := range entries {
		if e.Quantity > 0 {
			totals[e.Supplier] += e.Quantity
		}
	}
	return totals
}
