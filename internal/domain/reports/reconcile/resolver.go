package reconcile

import "alcosklad/internal/domain/catalogs/supplier"

// Source carries the three channels an event may identify its city
// through. Historical records are inconsistent: some hold a supplier
// relation id, some only a city name string, some an expanded relation.
type Source struct {
	// CityName is the event's explicit city name field.
	CityName string

	// RelationName is the name of the expanded supplier relation, when
	// the store resolved it.
	RelationName string

	// SupplierID is the raw relation id.
	SupplierID string
}

// Resolver maps event city references onto supplier ids. One resolver
// serves every event source so the fallback order stays in one place.
type Resolver struct {
	byID     map[string]supplier.Supplier
	idByName map[string]string
}

// NewResolver builds a resolver over the supplier catalog.
func NewResolver(suppliers []supplier.Supplier) *Resolver {
	byID, idByName := supplier.Index(suppliers)
	return &Resolver{byID: byID, idByName: idByName}
}

// Resolve tries, in order: the explicit city name, the expanded relation
// name, then the supplier id. An event no strategy can place is excluded
// by the caller; it must never default to a guessed city.
func (r *Resolver) Resolve(src Source) (string, bool) {
	if src.CityName != "" {
		if id, ok := r.idByName[src.CityName]; ok {
			return id, true
		}
	}
	if src.RelationName != "" {
		if id, ok := r.idByName[src.RelationName]; ok {
			return id, true
		}
	}
	if src.SupplierID != "" {
		if _, ok := r.byID[src.SupplierID]; ok {
			return src.SupplierID, true
		}
	}
	return "", false
}

// Name returns the display name for a resolved city id.
func (r *Resolver) Name(id string) string {
	return r.byID[id].Name
}
