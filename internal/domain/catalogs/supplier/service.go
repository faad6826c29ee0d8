package supplier

import (
	"context"
	"fmt"
	"time"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/citycode"
)

const (
	cacheKey = "suppliers"

	// Suppliers rarely change, so they tolerate a long TTL.
	cacheTTL = time.Hour
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new Supplier service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns all suppliers, served through the cache.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKey, cacheTTL, s.repo.List, nil)
}

// GetByID retrieves a single supplier by id.
func (s *Service) GetByID(ctx context.Context, id string) (Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a supplier, deriving the city code from the name when the
// caller has not set one.
func (s *Service) Create(ctx context.Context, sup Supplier) (Supplier, error) {
	if sup.Code == "" {
		if code, ok := citycode.Code(sup.Name); ok {
			sup.Code = code
		}
	}
	created, err := s.repo.Create(ctx, sup)
	if err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	s.cache.Invalidate(ctx, cacheKey)
	return created, nil
}

// Update modifies supplier fields.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (Supplier, error) {
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return Supplier{}, fmt.Errorf("update supplier: %w", err)
	}
	s.cache.Invalidate(ctx, cacheKey)
	return updated, nil
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	s.cache.Invalidate(ctx, cacheKey)
	return nil
}

// Index builds lookup maps used by city resolution: id → supplier and
// name → id.
func Index(suppliers []Supplier) (byID map[string]Supplier, idByName map[string]string) {
	byID = make(map[string]Supplier, len(suppliers))
	idByName = make(map[string]string, len(suppliers))
	for _, sup := range suppliers {
		byID[sup.ID] = sup
		if sup.Name != "" {
			idByName[sup.Name] = sup.ID
		}
	}
	return byID, idByName
}
