package reception

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/apperror"
	"alcosklad/internal/domain/registers/stock"
	"alcosklad/pkg/logger"
)

const (
	cacheKey = "receptions"
	cacheTTL = 2 * time.Minute
)

// Service provides business logic for reception documents.
type Service struct {
	repo  Repository
	stock *stock.Service
	cache *cache.Cache
}

// NewService creates a new reception service.
func NewService(repo Repository, stockSvc *stock.Service, c *cache.Cache) *Service {
	return &Service{repo: repo, stock: stockSvc, cache: c}
}

// List returns all receptions, served through the cache.
func (s *Service) List(ctx context.Context) ([]Reception, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKey, cacheTTL, s.repo.List, nil)
}

// GetByID retrieves a single reception.
func (s *Service) GetByID(ctx context.Context, id string) (Reception, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores the reception document and applies its stock delta: one
// fresh batch entry per line item, tagged with the reception id so the
// delta can be reversed later. Stock application stops on the first
// failed line; lines already applied stay applied.
func (s *Service) Create(ctx context.Context, r Reception) (Reception, error) {
	if len(r.Items) == 0 {
		return Reception{}, apperror.NewValidation("reception needs at least one line item")
	}
	for i, item := range r.Items {
		if item.Quantity <= 0 {
			return Reception{}, apperror.NewValidation("line item quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", item.Quantity)
		}
	}
	if r.TotalAmount.IsZero() {
		r.TotalAmount = sumAmount(r.Items)
	}
	if r.Date.IsZero() {
		r.Date.Time = time.Now()
	}

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return Reception{}, fmt.Errorf("create reception: %w", err)
	}

	applied := 0
	for _, item := range created.Items {
		_, err := s.stock.AddBatch(ctx, stock.Entry{
			Product:       item.Product,
			Supplier:      created.Supplier,
			Quantity:      item.Quantity,
			CostPerUnit:   item.Cost,
			BatchNumber:   created.BatchNumber,
			Reception:     created.ID,
			ReceptionDate: created.Date,
		})
		if err != nil {
			s.invalidate(ctx)
			return created, fmt.Errorf("apply stock for line %d of %d: %w", applied, len(created.Items), err)
		}
		applied++
	}

	logger.Info(ctx, "reception created",
		"reception", created.ID,
		"supplier", created.Supplier,
		"lines", len(created.Items),
		"quantity", created.TotalQuantity())
	s.invalidate(ctx)
	return created, nil
}

// Update modifies document fields. Stock deltas are not recomputed here;
// quantity corrections go through the stock register's repair path.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (Reception, error) {
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return Reception{}, fmt.Errorf("update reception: %w", err)
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes the reception document. When deleteStock is set, the
// batch entries it created are removed too, reversing the stock delta.
func (s *Service) Delete(ctx context.Context, id string, deleteStock bool) error {
	if deleteStock {
		deleted, err := s.stock.DeleteByReception(ctx, id)
		if err != nil {
			return fmt.Errorf("reverse reception stock: %w", err)
		}
		logger.Info(ctx, "reception stock reversed", "reception", id, "entries", deleted)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reception: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func sumAmount(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKey)
	s.cache.Invalidate(ctx, "stocks")
	s.cache.Invalidate(ctx, "dashboard")
}
