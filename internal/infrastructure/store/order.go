package store

import (
	"context"
	"fmt"

	"alcosklad/internal/core/apperror"
	"alcosklad/internal/domain/documents/order"
	"alcosklad/internal/recordstore"
)

// OrderRepo implements order.Repository.
type OrderRepo struct {
	client *recordstore.Client
}

// NewOrderRepo creates an order repository.
func NewOrderRepo(client *recordstore.Client) *OrderRepo {
	return &OrderRepo{client: client}
}

func (r *OrderRepo) List(ctx context.Context) ([]order.Order, error) {
	return recordstore.List[order.Order](ctx, r.client, collOrders, recordstore.Query{
		Sort:   "-created",
		Expand: "supplier",
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (order.Order, error) {
	return recordstore.First[order.Order](ctx, r.client, collOrders, recordstore.Query{
		Filter: recordstore.Eq("id", id),
		Expand: "supplier",
	})
}

func (r *OrderRepo) Create(ctx context.Context, o order.Order) (order.Order, error) {
	var created order.Order
	if err := r.client.Create(ctx, collOrders, o, &created); err != nil {
		return order.Order{}, fmt.Errorf("create order record: %w", err)
	}
	return created, nil
}

func (r *OrderRepo) Update(ctx context.Context, id string, fields map[string]any) (order.Order, error) {
	var updated order.Order
	if err := r.client.Update(ctx, collOrders, id, fields, &updated); err != nil {
		return order.Order{}, fmt.Errorf("update order record: %w", err)
	}
	return updated, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, collOrders, id)
}

// LastNumber returns the highest order number in one city sequence.
func (r *OrderRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	latest, err := recordstore.First[order.Order](ctx, r.client, collOrders, recordstore.Query{
		Filter: recordstore.Like("number", prefix+"-"),
		Sort:   "-number",
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("query last order number: %w", err)
	}
	return latest.Number, nil
}
