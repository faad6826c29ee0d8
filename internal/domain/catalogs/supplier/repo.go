package supplier

import "context"

// Repository defines data access for the Supplier catalog.
type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	GetByID(ctx context.Context, id string) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, id string, fields map[string]any) (Supplier, error)
	Delete(ctx context.Context, id string) error
}
