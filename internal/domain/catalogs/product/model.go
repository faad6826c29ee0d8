// Package product provides the Product catalog (Справочник "Товары").
package product

import (
	"alcosklad/internal/core/types"
	"alcosklad/internal/recordstore"
)

// Product represents a catalog item sold across cities.
type Product struct {
	ID string `json:"id"`

	// Name is the full display name, e.g. "Коньяк Арарат 5 лет 0.5л".
	Name string `json:"name"`

	// Category and Subcategory may be auto-detected from the name via
	// pattern rules when left unset.
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`

	// Article is the item article/SKU.
	Article string `json:"article,omitempty"`

	// Cost is the purchase price per unit.
	Cost types.Money `json:"cost"`

	// Price is the sale price per unit.
	Price types.Money `json:"price"`

	Created recordstore.Time `json:"created"`
	Updated recordstore.Time `json:"updated"`
}

// Margin returns the per-unit margin (sale price minus purchase price).
func (p Product) Margin() types.Money {
	return p.Price.Sub(p.Cost)
}

// Stub builds a placeholder product carrying only the raw id. Used when a
// relation expand did not resolve: the referencing row must still count,
// it just renders without a name.
func Stub(id string) Product {
	return Product{ID: id}
}
