package writeoff

import "context"

// Repository defines data access for write-off documents.
type Repository interface {
	List(ctx context.Context) ([]WriteOff, error)
	GetByID(ctx context.Context, id string) (WriteOff, error)
	Create(ctx context.Context, w WriteOff) (WriteOff, error)
	Update(ctx context.Context, id string, fields map[string]any) (WriteOff, error)
}
