package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/apperror"
	"alcosklad/internal/core/citycode"
	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/domain/registers/stock"
	"alcosklad/pkg/logger"
)

const (
	cacheKey = "orders"
	cacheTTL = time.Minute
)

// Service provides business logic for sales orders.
type Service struct {
	repo      Repository
	stock     *stock.Service
	suppliers *supplier.Service
	cache     *cache.Cache
}

// NewService creates a new order service.
func NewService(repo Repository, stockSvc *stock.Service, suppliers *supplier.Service, c *cache.Cache) *Service {
	return &Service{repo: repo, stock: stockSvc, suppliers: suppliers, cache: c}
}

// List returns all orders, served through the cache.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKey, cacheTTL, s.repo.List, nil)
}

// GetByID retrieves a single order.
func (s *Service) GetByID(ctx context.Context, id string) (Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Create checks availability, consumes stock oldest batch first, assigns
// the next city-scoped number, and stores the order as completed.
func (s *Service) Create(ctx context.Context, o Order) (Order, error) {
	if len(o.Items) == 0 {
		return Order{}, apperror.NewValidation("order needs at least one line item")
	}
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return Order{}, apperror.NewValidation("line item quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", item.Quantity)
		}
	}

	cityName, err := s.cityName(ctx, o)
	if err != nil {
		return Order{}, err
	}

	// Check availability before touching stock so a shortage on a later
	// line does not leave earlier lines consumed. Lines referencing the
	// same product draw from the same pool, so requests are summed per
	// product first.
	requested := make(map[string]int)
	for _, item := range o.Items {
		requested[item.Product] += item.Quantity
	}
	for productID, quantity := range requested {
		available, err := s.stock.Available(ctx, productID, o.Supplier)
		if err != nil {
			return Order{}, err
		}
		if available < quantity {
			return Order{}, apperror.NewInsufficientStock(productID, quantity, available)
		}
	}

	code, ok := citycode.Code(cityName)
	if !ok {
		return Order{}, apperror.NewResolution("city code", cityName)
	}
	last, err := s.repo.LastNumber(ctx, code)
	if err != nil {
		return Order{}, fmt.Errorf("load last order number: %w", err)
	}
	o.Number = NextNumber(code, last)
	o.Status = StatusCompleted
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentCash
	}
	if o.Total.IsZero() {
		o.Total = sumTotal(o.Items)
	}

	for _, item := range o.Items {
		if _, err := s.stock.Consume(ctx, item.Product, o.Supplier, item.Quantity); err != nil {
			s.invalidate(ctx)
			return Order{}, fmt.Errorf("consume stock for %s: %w", item.Product, err)
		}
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		s.invalidate(ctx)
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	logger.Info(ctx, "order created",
		"order", created.ID,
		"number", created.Number,
		"city", cityName,
		"total", created.Total)
	s.invalidate(ctx)
	return created, nil
}

// Refund flips the order to refund status and puts the sold units back
// into stock at the current weighted average purchase price. The order
// record is kept; refunds drop out of net consumption.
func (s *Service) Refund(ctx context.Context, id string) (Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, fmt.Errorf("load order: %w", err)
	}
	if o.IsRefund() {
		return Order{}, apperror.NewBusinessRule("ORDER_ALREADY_REFUNDED", "order is already refunded").
			WithDetail("order", id)
	}

	for _, item := range o.Items {
		cost, err := s.stock.AverageCost(ctx, item.Product, o.Supplier)
		if err != nil {
			return Order{}, err
		}
		_, err = s.stock.AddBatch(ctx, stock.Entry{
			Product:     item.Product,
			Supplier:    o.Supplier,
			Quantity:    item.Quantity,
			CostPerUnit: cost,
			BatchNumber: "refund-" + o.Number,
		})
		if err != nil {
			s.invalidate(ctx)
			return Order{}, fmt.Errorf("return stock for %s: %w", item.Product, err)
		}
	}

	updated, err := s.repo.Update(ctx, id, map[string]any{"status": string(StatusRefund)})
	if err != nil {
		s.invalidate(ctx)
		return Order{}, fmt.Errorf("mark order refunded: %w", err)
	}

	logger.Info(ctx, "order refunded", "order", id, "number", o.Number)
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes an order record without touching stock.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// cityName resolves the order's city display name: the legacy name field
// when present, else the supplier relation.
func (s *Service) cityName(ctx context.Context, o Order) (string, error) {
	if o.City != "" {
		return o.City, nil
	}
	if o.Supplier == "" {
		return "", apperror.NewResolution("order city", o.ID)
	}
	sup, err := s.suppliers.GetByID(ctx, o.Supplier)
	if err != nil {
		return "", fmt.Errorf("resolve order supplier: %w", err)
	}
	return sup.Name, nil
}

func sumTotal(items []Item) types.Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKey)
	s.cache.Invalidate(ctx, "stocks")
	s.cache.Invalidate(ctx, "dashboard")
}
