package store

import (
	"context"
	"fmt"

	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/recordstore"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	client *recordstore.Client
}

// NewProductRepo creates a product repository.
func NewProductRepo(client *recordstore.Client) *ProductRepo {
	return &ProductRepo{client: client}
}

func (r *ProductRepo) List(ctx context.Context) ([]product.Product, error) {
	return recordstore.List[product.Product](ctx, r.client, collProducts, recordstore.Query{Sort: "name"})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (product.Product, error) {
	return recordstore.First[product.Product](ctx, r.client, collProducts, recordstore.Query{
		Filter: recordstore.Eq("id", id),
	})
}

func (r *ProductRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	var created product.Product
	if err := r.client.Create(ctx, collProducts, p, &created); err != nil {
		return product.Product{}, fmt.Errorf("create product record: %w", err)
	}
	return created, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, fields map[string]any) (product.Product, error) {
	var updated product.Product
	if err := r.client.Update(ctx, collProducts, id, fields, &updated); err != nil {
		return product.Product{}, fmt.Errorf("update product record: %w", err)
	}
	return updated, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, collProducts, id)
}

// productRef is the slimmest view of a record that carries a product
// relation.
type productRef struct {
	ID string `json:"id"`
}

// ReferencingRecords lists stock, reception, and order records pointing
// at productID. Receptions and orders embed the product inside their
// items JSON, so the relation filter uses the items field match the
// store supports for JSON columns.
func (r *ProductRepo) ReferencingRecords(ctx context.Context, productID string) ([]product.Reference, error) {
	var refs []product.Reference

	stocks, err := recordstore.List[productRef](ctx, r.client, collStocks, recordstore.Query{
		Filter: recordstore.Eq("product", productID),
	})
	if err != nil {
		return nil, fmt.Errorf("list stock references: %w", err)
	}
	for _, rec := range stocks {
		refs = append(refs, product.Reference{Collection: collStocks, RecordID: rec.ID})
	}

	for _, coll := range []string{collReceptions, collOrders} {
		records, err := recordstore.List[productRef](ctx, r.client, coll, recordstore.Query{
			Filter: recordstore.Like("items", productID),
		})
		if err != nil {
			return nil, fmt.Errorf("list %s references: %w", coll, err)
		}
		for _, rec := range records {
			refs = append(refs, product.Reference{Collection: coll, RecordID: rec.ID})
		}
	}
	return refs, nil
}

// RepointReference rewrites one record's product relation. Stock rows
// update the relation field directly; receptions and orders rewrite the
// product id inside their items payload, which the store applies as a
// JSON field replacement.
func (r *ProductRepo) RepointReference(ctx context.Context, ref product.Reference, fromProductID, toProductID string) error {
	if ref.Collection == collStocks {
		return r.client.Update(ctx, ref.Collection, ref.RecordID, map[string]any{"product": toProductID}, nil)
	}

	// Items live in a JSON column: fetch, rewrite, write back.
	record, err := recordstore.First[struct {
		ID    string           `json:"id"`
		Items []map[string]any `json:"items"`
	}](ctx, r.client, ref.Collection, recordstore.Query{
		Filter: recordstore.Eq("id", ref.RecordID),
	})
	if err != nil {
		return fmt.Errorf("load %s record: %w", ref.Collection, err)
	}

	changed := false
	for _, item := range record.Items {
		if id, _ := item["product"].(string); id == fromProductID {
			item["product"] = toProductID
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.client.Update(ctx, ref.Collection, ref.RecordID, map[string]any{"items": record.Items}, nil)
}
