package store

import (
	"context"
	"fmt"

	"alcosklad/internal/domain/registers/stock"
	"alcosklad/internal/recordstore"
)

const stockExpand = "product,supplier"

// StockRepo implements stock.Repository.
type StockRepo struct {
	client *recordstore.Client
}

// NewStockRepo creates a stock repository.
func NewStockRepo(client *recordstore.Client) *StockRepo {
	return &StockRepo{client: client}
}

func (r *StockRepo) ListAll(ctx context.Context) ([]stock.Entry, error) {
	return recordstore.List[stock.Entry](ctx, r.client, collStocks, recordstore.Query{
		Expand: stockExpand,
	})
}

func (r *StockRepo) ListByCity(ctx context.Context, supplierID string) ([]stock.Entry, error) {
	return recordstore.List[stock.Entry](ctx, r.client, collStocks, recordstore.Query{
		Filter: recordstore.Eq("supplier", supplierID),
		Expand: stockExpand,
	})
}

func (r *StockRepo) ListByProductCity(ctx context.Context, productID, supplierID string) ([]stock.Entry, error) {
	return recordstore.List[stock.Entry](ctx, r.client, collStocks, recordstore.Query{
		Filter: recordstore.And(
			recordstore.Eq("product", productID),
			recordstore.Eq("supplier", supplierID),
		),
		Sort:   "reception_date,created",
		Expand: stockExpand,
	})
}

func (r *StockRepo) ListByReception(ctx context.Context, receptionID string) ([]stock.Entry, error) {
	return recordstore.List[stock.Entry](ctx, r.client, collStocks, recordstore.Query{
		Filter: recordstore.Eq("reception", receptionID),
	})
}

func (r *StockRepo) Create(ctx context.Context, e stock.Entry) (stock.Entry, error) {
	var created stock.Entry
	if err := r.client.Create(ctx, collStocks, e, &created); err != nil {
		return stock.Entry{}, fmt.Errorf("create stock record: %w", err)
	}
	return created, nil
}

func (r *StockRepo) Update(ctx context.Context, id string, fields map[string]any) (stock.Entry, error) {
	var updated stock.Entry
	if err := r.client.Update(ctx, collStocks, id, fields, &updated); err != nil {
		return stock.Entry{}, fmt.Errorf("update stock record: %w", err)
	}
	return updated, nil
}

func (r *StockRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, collStocks, id)
}
