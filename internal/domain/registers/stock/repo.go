package stock

import "context"

// Repository defines data access for the stock register. List methods
// return entries with product and supplier relations expanded when the
// store can resolve them.
type Repository interface {
	// ListAll returns every stock entry across all cities.
	ListAll(ctx context.Context) ([]Entry, error)

	// ListByCity returns entries for one supplier/city.
	ListByCity(ctx context.Context, supplierID string) ([]Entry, error)

	// ListByProductCity returns entries for one (product, city) pair,
	// sorted by reception date ascending for FIFO consumption.
	ListByProductCity(ctx context.Context, productID, supplierID string) ([]Entry, error)

	// ListByReception returns the batch entries a reception created.
	ListByReception(ctx context.Context, receptionID string) ([]Entry, error)

	Create(ctx context.Context, e Entry) (Entry, error)
	Update(ctx context.Context, id string, fields map[string]any) (Entry, error)
	Delete(ctx context.Context, id string) error
}
