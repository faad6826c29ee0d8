package store

import (
	"context"
	"fmt"

	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/recordstore"
)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	client *recordstore.Client
}

// NewSupplierRepo creates a supplier repository.
func NewSupplierRepo(client *recordstore.Client) *SupplierRepo {
	return &SupplierRepo{client: client}
}

func (r *SupplierRepo) List(ctx context.Context) ([]supplier.Supplier, error) {
	return recordstore.List[supplier.Supplier](ctx, r.client, collSuppliers, recordstore.Query{Sort: "name"})
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (supplier.Supplier, error) {
	return recordstore.First[supplier.Supplier](ctx, r.client, collSuppliers, recordstore.Query{
		Filter: recordstore.Eq("id", id),
	})
}

func (r *SupplierRepo) Create(ctx context.Context, s supplier.Supplier) (supplier.Supplier, error) {
	var created supplier.Supplier
	if err := r.client.Create(ctx, collSuppliers, s, &created); err != nil {
		return supplier.Supplier{}, fmt.Errorf("create supplier record: %w", err)
	}
	return created, nil
}

func (r *SupplierRepo) Update(ctx context.Context, id string, fields map[string]any) (supplier.Supplier, error) {
	var updated supplier.Supplier
	if err := r.client.Update(ctx, collSuppliers, id, fields, &updated); err != nil {
		return supplier.Supplier{}, fmt.Errorf("update supplier record: %w", err)
	}
	return updated, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, collSuppliers, id)
}
