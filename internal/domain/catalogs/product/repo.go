package product

import "context"

// Reference points at a record in another collection that carries a
// product relation. Used by merge to re-point duplicates.
type Reference struct {
	Collection string
	RecordID   string
}

// Repository defines data access for the Product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, fields map[string]any) (Product, error)
	Delete(ctx context.Context, id string) error

	// ReferencingRecords lists every stock, reception, and order record
	// whose product relation points at productID.
	ReferencingRecords(ctx context.Context, productID string) ([]Reference, error)

	// RepointReference rewrites one record's product relation from
	// fromProductID to toProductID.
	RepointReference(ctx context.Context, ref Reference, fromProductID, toProductID string) error
}
