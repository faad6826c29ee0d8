package reception

import "context"

// Repository defines data access for reception documents.
type Repository interface {
	List(ctx context.Context) ([]Reception, error)
	GetByID(ctx context.Context, id string) (Reception, error)
	Create(ctx context.Context, r Reception) (Reception, error)
	Update(ctx context.Context, id string, fields map[string]any) (Reception, error)
	Delete(ctx context.Context, id string) error
}
