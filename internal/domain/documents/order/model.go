// Package order provides the sales order document (Документ "Заказ").
// A completed order is a stock-decrement event; a refund reverses it and
// drops it from net consumption.
package order

import (
	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/recordstore"
)

// Status of an order.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRefund    Status = "refund"
)

// PaymentMethod of an order.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Item is one order line.
type Item struct {
	Product  string      `json:"product"`
	Quantity int         `json:"quantity"`
	Price    types.Money `json:"price"`
}

// Order is a sale against one city's stock.
type Order struct {
	ID string `json:"id"`

	// Number is the human-facing order number, "{CODE}-{NNNN}" where CODE
	// is the city code, e.g. "VG-0042".
	Number string `json:"number"`

	Items         []Item        `json:"items"`
	Total         types.Money   `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        Status        `json:"status"`

	// Supplier is the selling city relation; City is the legacy name-based
	// reference older records carry instead.
	Supplier string `json:"supplier,omitempty"`
	City     string `json:"city,omitempty"`

	Created recordstore.Time `json:"created"`
	Updated recordstore.Time `json:"updated"`

	Expand Expand `json:"expand"`
}

// Expand holds resolved relations.
type Expand struct {
	Supplier *supplier.Supplier `json:"supplier,omitempty"`
}

// IsRefund reports whether the order is excluded from net consumption.
func (o Order) IsRefund() bool {
	return o.Status == StatusRefund
}

// TotalQuantity sums the line item quantities.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
