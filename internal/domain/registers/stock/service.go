package stock

import (
	"context"
	"fmt"
	"time"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/apperror"
	"alcosklad/internal/core/types"
	"alcosklad/internal/recordstore"
	"alcosklad/pkg/logger"
)

const (
	cacheKeyAll = "stocks"

	// Stocks change on every sale, so they get a short TTL.
	cacheTTL = 30 * time.Second
)

// Service provides business logic for the stock register.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new stock service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns every stock entry, served through the cache.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKeyAll, cacheTTL, s.repo.ListAll, nil)
}

// ListCity returns entries for one city, served through the cache.
func (s *Service) ListCity(ctx context.Context, supplierID string) ([]Entry, error) {
	key := cacheKeyAll + ":" + supplierID
	return cache.GetOrFetch(ctx, s.cache, key, cacheTTL, func(ctx context.Context) ([]Entry, error) {
		return s.repo.ListByCity(ctx, supplierID)
	}, nil)
}

// Aggregated returns the aggregated stock view, across all cities when
// supplierID is empty. A failed load degrades to an empty view: the
// aggregate must render the same for empty-due-to-error and
// empty-due-to-no-data.
func (s *Service) Aggregated(ctx context.Context, supplierID string, opts AggregateOptions) ([]Aggregated, error) {
	var (
		entries []Entry
		err     error
	)
	if supplierID == "" {
		entries, err = s.List(ctx)
	} else {
		entries, err = s.ListCity(ctx, supplierID)
	}
	if err != nil {
		logger.Warn(ctx, "stock load failed, aggregating empty view", "supplier", supplierID, "error", err)
		entries = nil
	}
	return Aggregate(entries, opts), nil
}

// Available returns the total quantity on hand for one (product, city)
// pair.
func (s *Service) Available(ctx context.Context, productID, supplierID string) (int, error) {
	entries, err := s.repo.ListByProductCity(ctx, productID, supplierID)
	if err != nil {
		return 0, fmt.Errorf("list stock for availability: %w", err)
	}
	total := 0
	for _, e := range entries {
		if e.Quantity > 0 {
			total += e.Quantity
		}
	}
	return total, nil
}

// SetCityQuantity forces the total quantity for a (product, city) pair
// to target, repairing fragmentation along the way: target ≤ 0 deletes
// every entry for the pair; otherwise the first entry is updated and the
// rest deleted, or a single entry created when none exists. Calling it
// twice with the same target is a no-op the second time.
func (s *Service) SetCityQuantity(ctx context.Context, productID, supplierID string, target int) error {
	entries, err := s.repo.ListByProductCity(ctx, productID, supplierID)
	if err != nil {
		return fmt.Errorf("list stock entries: %w", err)
	}

	defer s.invalidate(ctx)

	if target <= 0 {
		for _, e := range entries {
			if err := s.repo.Delete(ctx, e.ID); err != nil {
				return fmt.Errorf("delete stock entry %s: %w", e.ID, err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		_, err := s.repo.Create(ctx, Entry{
			Product:  productID,
			Supplier: supplierID,
			Quantity: target,
		})
		if err != nil {
			return fmt.Errorf("create stock entry: %w", err)
		}
		return nil
	}

	if _, err := s.repo.Update(ctx, entries[0].ID, map[string]any{"quantity": target}); err != nil {
		return fmt.Errorf("update stock entry %s: %w", entries[0].ID, err)
	}
	for _, e := range entries[1:] {
		if err := s.repo.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete fragmented entry %s: %w", e.ID, err)
		}
	}
	return nil
}

// AddBatch records an incoming batch as a fresh entry for the pair.
// Receptions call this once per line item so batches stay separable for
// FIFO consumption.
func (s *Service) AddBatch(ctx context.Context, e Entry) (Entry, error) {
	if e.Quantity <= 0 {
		return Entry{}, apperror.NewValidation("batch quantity must be positive").
			WithDetail("quantity", e.Quantity)
	}
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return Entry{}, fmt.Errorf("create batch entry: %w", err)
	}
	s.invalidate(ctx)
	return created, nil
}

// Consume removes quantity units from a (product, city) pair oldest
// batch first, updating or deleting the underlying entries. Sales and
// write-offs both decrement through here. The returned plan records
// which batches were touched and at what purchase price.
func (s *Service) Consume(ctx context.Context, productID, supplierID string, quantity int) ([]Deduction, error) {
	entries, err := s.repo.ListByProductCity(ctx, productID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}

	plan, err := PlanFIFO(productID, entries, quantity)
	if err != nil {
		return nil, err
	}

	for applied, d := range plan {
		var opErr error
		if d.Remaining == 0 {
			opErr = s.repo.Delete(ctx, d.EntryID)
		} else {
			_, opErr = s.repo.Update(ctx, d.EntryID, map[string]any{"quantity": d.Remaining})
		}
		if opErr != nil {
			s.invalidate(ctx)
			return plan[:applied], fmt.Errorf("apply deduction to entry %s: %w", d.EntryID, opErr)
		}
	}

	s.invalidate(ctx)
	return plan, nil
}

// Restore puts previously consumed units back into their batches, e.g.
// on order refund or write-off cancellation. Batches whose entry was
// deleted during consumption are recreated with the recorded batch
// number and purchase price.
func (s *Service) Restore(ctx context.Context, productID, supplierID string, plan []Deduction) error {
	for _, d := range plan {
		if err := s.restoreOne(ctx, productID, supplierID, d); err != nil {
			s.invalidate(ctx)
			return err
		}
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) restoreOne(ctx context.Context, productID, supplierID string, d Deduction) error {
	_, err := s.repo.Update(ctx, d.EntryID, map[string]any{
		"quantity+": d.Quantity,
	})
	if err == nil {
		return nil
	}
	if !apperror.IsNotFound(err) {
		return fmt.Errorf("restore batch entry %s: %w", d.EntryID, err)
	}

	// The batch was fully consumed and its entry deleted; recreate it.
	_, err = s.repo.Create(ctx, Entry{
		Product:       productID,
		Supplier:      supplierID,
		Quantity:      d.Quantity,
		CostPerUnit:   d.CostPerUnit,
		BatchNumber:   d.BatchNumber,
		ReceptionDate: recordstore.Time{Time: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("recreate batch entry: %w", err)
	}
	return nil
}

// AverageCost returns the weighted average purchase price for a
// (product, city) pair.
func (s *Service) AverageCost(ctx context.Context, productID, supplierID string) (types.Money, error) {
	entries, err := s.repo.ListByProductCity(ctx, productID, supplierID)
	if err != nil {
		return types.Zero(), fmt.Errorf("list stock entries: %w", err)
	}
	return WeightedAverageCost(entries), nil
}

// DeleteByReception removes the batch entries a reception created. Used
// when a reception is deleted with its stock.
func (s *Service) DeleteByReception(ctx context.Context, receptionID string) (int, error) {
	entries, err := s.repo.ListByReception(ctx, receptionID)
	if err != nil {
		return 0, fmt.Errorf("list reception batches: %w", err)
	}
	deleted := 0
	for _, e := range entries {
		if err := s.repo.Delete(ctx, e.ID); err != nil {
			s.invalidate(ctx)
			return deleted, fmt.Errorf("delete batch entry %s: %w", e.ID, err)
		}
		deleted++
	}
	s.invalidate(ctx)
	return deleted, nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKeyAll)
	s.cache.Invalidate(ctx, "dashboard")
}
