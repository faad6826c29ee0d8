package order

import "context"

// Repository defines data access for order documents.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	Update(ctx context.Context, id string, fields map[string]any) (Order, error)
	Delete(ctx context.Context, id string) error

	// LastNumber returns the highest order number starting with
	// prefix + "-", or "" when the sequence is empty.
	LastNumber(ctx context.Context, prefix string) (string, error)
}
