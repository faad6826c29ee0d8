// Package reception provides the goods reception document (Документ
// "Приёмка товара"): an incoming-stock batch event that creates one
// stock entry per line item.
package reception

import (
	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/recordstore"
)

// Item is one reception line.
type Item struct {
	Product  string      `json:"product"`
	Quantity int         `json:"quantity"`
	Cost     types.Money `json:"cost"`
}

// Reception is an incoming-stock batch event.
type Reception struct {
	ID string `json:"id"`

	// Supplier is the receiving city.
	Supplier string `json:"supplier"`

	// City is a legacy name-based city reference; old records carry only
	// this field, with no supplier relation.
	City string `json:"city,omitempty"`

	// Stores lists the shops the batch is distributed to.
	Stores []string `json:"stores,omitempty"`

	Items       []Item      `json:"items"`
	TotalAmount types.Money `json:"total_amount"`

	// BatchNumber tags the stock entries this reception creates.
	BatchNumber string `json:"batch_number,omitempty"`

	Date    recordstore.Time `json:"date"`
	Created recordstore.Time `json:"created"`
	Updated recordstore.Time `json:"updated"`

	Expand Expand `json:"expand"`
}

// Expand holds resolved relations.
type Expand struct {
	Supplier *supplier.Supplier `json:"supplier,omitempty"`
}

// TotalQuantity sums the line item quantities.
func (r Reception) TotalQuantity() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// EffectiveDate is the event day used for time-series reconstruction:
// the document date when set, else the record creation time.
func (r Reception) EffectiveDate() recordstore.Time {
	if !r.Date.IsZero() {
		return r.Date
	}
	return r.Created
}
