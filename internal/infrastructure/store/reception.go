package store

import (
	"context"
	"fmt"

	"alcosklad/internal/domain/documents/reception"
	"alcosklad/internal/recordstore"
)

// ReceptionRepo implements reception.Repository.
type ReceptionRepo struct {
	client *recordstore.Client
}

// NewReceptionRepo creates a reception repository.
func NewReceptionRepo(client *recordstore.Client) *ReceptionRepo {
	return &ReceptionRepo{client: client}
}

func (r *ReceptionRepo) List(ctx context.Context) ([]reception.Reception, error) {
	return recordstore.List[reception.Reception](ctx, r.client, collReceptions, recordstore.Query{
		Sort:   "-date",
		Expand: "supplier",
	})
}

func (r *ReceptionRepo) GetByID(ctx context.Context, id string) (reception.Reception, error) {
	return recordstore.First[reception.Reception](ctx, r.client, collReceptions, recordstore.Query{
		Filter: recordstore.Eq("id", id),
		Expand: "supplier",
	})
}

func (r *ReceptionRepo) Create(ctx context.Context, rec reception.Reception) (reception.Reception, error) {
	var created reception.Reception
	if err := r.client.Create(ctx, collReceptions, rec, &created); err != nil {
		return reception.Reception{}, fmt.Errorf("create reception record: %w", err)
	}
	return created, nil
}

func (r *ReceptionRepo) Update(ctx context.Context, id string, fields map[string]any) (reception.Reception, error) {
	var updated reception.Reception
	if err := r.client.Update(ctx, collReceptions, id, fields, &updated); err != nil {
		return reception.Reception{}, fmt.Errorf("update reception record: %w", err)
	}
	return updated, nil
}

func (r *ReceptionRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, collReceptions, id)
}
