package store

import (
	"context"
	"fmt"

	"alcosklad/internal/domain/documents/writeoff"
	"alcosklad/internal/recordstore"
)

// WriteOffRepo implements writeoff.Repository.
type WriteOffRepo struct {
	client *recordstore.Client
}

// NewWriteOffRepo creates a write-off repository.
func NewWriteOffRepo(client *recordstore.Client) *WriteOffRepo {
	return &WriteOffRepo{client: client}
}

func (r *WriteOffRepo) List(ctx context.Context) ([]writeoff.WriteOff, error) {
	return recordstore.List[writeoff.WriteOff](ctx, r.client, collWriteOffs, recordstore.Query{
		Sort:   "-created",
		Expand: "product,supplier",
	})
}

func (r *WriteOffRepo) GetByID(ctx context.Context, id string) (writeoff.WriteOff, error) {
	return recordstore.First[writeoff.WriteOff](ctx, r.client, collWriteOffs, recordstore.Query{
		Filter: recordstore.Eq("id", id),
		Expand: "product,supplier",
	})
}

func (r *WriteOffRepo) Create(ctx context.Context, w writeoff.WriteOff) (writeoff.WriteOff, error) {
	var created writeoff.WriteOff
	if err := r.client.Create(ctx, collWriteOffs, w, &created); err != nil {
		return writeoff.WriteOff{}, fmt.Errorf("create write-off record: %w", err)
	}
	return created, nil
}

func (r *WriteOffRepo) Update(ctx context.Context, id string, fields map[string]any) (writeoff.WriteOff, error) {
	var updated writeoff.WriteOff
	if err := r.client.Update(ctx, collWriteOffs, id, fields, &updated); err != nil {
		return writeoff.WriteOff{}, fmt.Errorf("update write-off record: %w", err)
	}
	return updated, nil
}
