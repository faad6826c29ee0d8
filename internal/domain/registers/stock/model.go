// Package stock provides the stock register: per-city quantity records,
// the aggregated multi-city view, and FIFO batch accounting.
package stock

import (
	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/recordstore"
)

// Entry is one raw stock record: the quantity of one product physically
// present in one city. The store may hold several fragmented entries for
// the same (product, city) pair; the aggregator sums them and the repair
// path in Service.SetCityQuantity collapses them.
type Entry struct {
	ID string `json:"id"`

	// Product and Supplier are relation ids; the resolved entities arrive
	// via Expand when the store managed to expand them.
	Product  string `json:"product"`
	Supplier string `json:"supplier"`

	Quantity int `json:"quantity"`

	// Cost is an optional per-entry purchase price override. Zero means
	// unset, fall back to the product's cost.
	Cost types.Money `json:"cost"`

	// CostPerUnit is the batch purchase price recorded at reception time.
	CostPerUnit types.Money `json:"cost_per_unit"`

	// BatchNumber and Reception tie the entry to the incoming batch that
	// created it; ReceptionDate orders batches for FIFO consumption.
	BatchNumber   string           `json:"batch_number,omitempty"`
	Reception     string           `json:"reception,omitempty"`
	ReceptionDate recordstore.Time `json:"reception_date"`

	Created recordstore.Time `json:"created"`
	Updated recordstore.Time `json:"updated"`

	Expand EntryExpand `json:"expand"`
}

// EntryExpand holds the relations the store resolved inline. Either
// pointer may be nil when expansion failed; the entry still counts.
type EntryExpand struct {
	Product  *product.Product   `json:"product,omitempty"`
	Supplier *supplier.Supplier `json:"supplier,omitempty"`
}

// ResolvedProduct returns the expanded product, or a bare-id stub when
// the expand is missing.
func (e Entry) ResolvedProduct() product.Product {
	if e.Expand.Product != nil {
		return *e.Expand.Product
	}
	return product.Stub(e.Product)
}

// SupplierName returns the expanded supplier's city name, or "" when the
// expand is missing.
func (e Entry) SupplierName() string {
	if e.Expand.Supplier != nil {
		return e.Expand.Supplier.Name
	}
	return ""
}

// ResolvedCost returns the entry's cost override when set, else the
// product's purchase price.
func (e Entry) ResolvedCost() types.Money {
	if e.Cost.IsPositive() {
		return e.Cost
	}
	return e.ResolvedProduct().Cost
}
