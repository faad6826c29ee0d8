// Package supplier provides the Supplier catalog (Справочник "Поставщики").
// A supplier doubles as a warehouse city: stock is partitioned by supplier,
// and the supplier name is the city display label.
package supplier

import "alcosklad/internal/recordstore"

// Supplier represents a warehouse location keyed by city.
type Supplier struct {
	ID string `json:"id"`

	// Name is the city name, e.g. "Волгоград".
	Name string `json:"name"`

	// Code is the short city code used in order numbers, e.g. "VG".
	Code string `json:"code,omitempty"`

	Created recordstore.Time `json:"created"`
	Updated recordstore.Time `json:"updated"`
}
