// Package writeoff provides the write-off document (Документ "Списание"):
// a stock-decrease event for loss, damage, or expiry. Cancelling restores
// the stock and keeps the record for audit.
package writeoff

import (
	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/recordstore"
)

// Status of a write-off.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// WriteOff removes quantity units of one product from one city.
type WriteOff struct {
	ID string `json:"id"`

	Product  string `json:"product"`
	Supplier string `json:"supplier"`

	// City is the legacy name-based city reference on old records.
	City string `json:"city,omitempty"`

	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`

	// CostPerUnit is the purchase price of the written-off units,
	// recorded at creation for loss reporting.
	CostPerUnit types.Money `json:"cost_per_unit"`

	Status Status `json:"status"`

	Created recordstore.Time `json:"created"`
	Updated recordstore.Time `json:"updated"`

	Expand Expand `json:"expand"`
}

// Expand holds resolved relations.
type Expand struct {
	Product  *product.Product   `json:"product,omitempty"`
	Supplier *supplier.Supplier `json:"supplier,omitempty"`
}

// IsActive reports whether the write-off still counts against stock.
func (w WriteOff) IsActive() bool {
	return w.Status != StatusCancelled
}
