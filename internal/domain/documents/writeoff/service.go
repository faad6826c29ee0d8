package writeoff

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
	cacheKey = "writeoffs"
	cacheTTL = 2 * time.Minute
)

// Service provides business logic for write-offs.
type Service struct {
	repo  Repository
	stock *stock.Service
	cache *cache.Cache
}

// NewService creates a new write-off service.
func NewService(repo Repository, stockSvc *stock.Service, c *cache.Cache) *Service {
	return &Service{repo: repo, stock: stockSvc, cache: c}
}

// List returns all write-offs, served through the cache.
func (s *Service) List(ctx context.Context) ([]WriteOff, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKey, cacheTTL, s.repo.List, nil)
}

// GetByID retrieves a single write-off.
func (s *Service) GetByID(ctx context.Context, id string) (WriteOff, error) {
	return s.repo.GetByID(ctx, id)
}

// Create consumes the written-off units from stock oldest batch first and
// stores the document as active. CostPerUnit is taken from the consumed
// batches when the caller left it unset.
func (s *Service) Create(ctx context.Context, w WriteOff) (WriteOff, error) {
	if w.Quantity <= 0 {
		return WriteOff{}, apperror.NewValidation("write-off quantity must be positive").
			WithDetail("quantity", w.Quantity)
	}

	plan, err := s.stock.Consume(ctx, w.Product, w.Supplier, w.Quantity)
	if err != nil {
		return WriteOff{}, err
	}
	if !w.CostPerUnit.IsPositive() {
		w.CostPerUnit = planAverageCost(plan)
	}
	w.Status = StatusActive

	created, err := s.repo.Create(ctx, w)
	if err != nil {
		s.invalidate(ctx)
		return WriteOff{}, fmt.Errorf("create write-off: %w", err)
	}

	logger.Info(ctx, "write-off created",
		"writeoff", created.ID,
		"product", created.Product,
		"supplier", created.Supplier,
		"quantity", created.Quantity,
		"reason", created.Reason)
	s.invalidate(ctx)
	return created, nil
}

// Cancel restores the written-off units to stock and flips the status.
// The record stays for audit; cancelling twice is rejected.
func (s *Service) Cancel(ctx context.Context, id string) (WriteOff, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WriteOff{}, fmt.Errorf("load write-off: %w", err)
	}
	if !w.IsActive() {
		return WriteOff{}, apperror.NewBusinessRule("WRITEOFF_ALREADY_CANCELLED", "write-off is already cancelled").
			WithDetail("writeoff", id)
	}

	_, err = s.stock.AddBatch(ctx, stock.Entry{
		Product:     w.Product,
		Supplier:    w.Supplier,
		Quantity:    w.Quantity,
		CostPerUnit: w.CostPerUnit,
		BatchNumber: "cancel-" + w.ID,
	})
	if err != nil {
		return WriteOff{}, fmt.Errorf("restore written-off stock: %w", err)
	}

	updated, err := s.repo.Update(ctx, id, map[string]any{"status": string(StatusCancelled)})
	if err != nil {
		s.invalidate(ctx)
		return WriteOff{}, fmt.Errorf("mark write-off cancelled: %w", err)
	}

	logger.Info(ctx, "write-off cancelled", "writeoff", id)
	s.invalidate(ctx)
	return updated, nil
}

// BatchResult reports a multi-product write-off run.
type BatchResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Created   []string `json:"created,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// CreateBatch writes off several products in one pass. Each line is
// independent: a failed line is counted and reported, the rest proceed.
func (s *Service) CreateBatch(ctx context.Context, writeOffs []WriteOff) BatchResult {
	var result BatchResult
	for _, w := range writeOffs {
		created, err := s.Create(ctx, w)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", w.Product, err))
			continue
		}
		result.Succeeded++
		result.Created = append(result.Created, created.ID)
	}
	if result.Failed > 0 {
		logger.Warn(ctx, "batch write-off finished with failures",
			"succeeded", result.Succeeded,
			"failed", result.Failed)
	}
	return result
}

func planAverageCost(plan []stock.Deduction) decimal.Decimal {
	total := decimal.Zero
	units := 0
	for _, d := range plan {
		total = total.Add(d.CostPerUnit.Mul(decimal.NewFromInt(int64(d.Quantity))))
		units += d.Quantity
	}
	if units == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(units)))
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKey)
	s.cache.Invalidate(ctx, "stocks")
	s.cache.Invalidate(ctx, "dashboard")
}
