package dashboard

import (
	"context"
	"time"

	"alcosklad/internal/cache"
	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/domain/documents/order"
	"alcosklad/internal/domain/documents/reception"
	"alcosklad/internal/domain/registers/stock"
	"alcosklad/pkg/logger"
)

const (
	cacheKey = "dashboard"
	cacheTTL = time.Minute
)

// Service serves dashboard stats through the cache. Loads are tolerant:
// a failed collection contributes an empty slice and the stats reflect
// what did load.
type Service struct {
	products   *product.Service
	stocks     *stock.Service
	orders     *order.Service
	receptions *reception.Service
	cache      *cache.Cache

	now func() time.Time
}

// NewService creates a dashboard service.
func NewService(products *product.Service, stocks *stock.Service, orders *order.Service, receptions *reception.Service, c *cache.Cache) *Service {
	return &Service{
		products:   products,
		stocks:     stocks,
		orders:     orders,
		receptions: receptions,
		cache:      c,
		now:        time.Now,
	}
}

// Stats returns the dashboard aggregates.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKey, cacheTTL, s.compute, nil)
}

func (s *Service) compute(ctx context.Context) (Stats, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		logger.Warn(ctx, "product load failed, dashboard counts zero products", "error", err)
		products = nil
	}
	entries, err := s.stocks.List(ctx)
	if err != nil {
		logger.Warn(ctx, "stock load failed, dashboard values empty stock", "error", err)
		entries = nil
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		logger.Warn(ctx, "order load failed, dashboard shows zero sales", "error", err)
		orders = nil
	}
	receptions, err := s.receptions.List(ctx)
	if err != nil {
		logger.Warn(ctx, "reception load failed, dashboard shows zero recent receptions", "error", err)
		receptions = nil
	}
	return Compute(products, entries, orders, receptions, s.now()), nil
}
