package product

import (
	"context"
	"fmt"
	"time"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/apperror"
	"alcosklad/pkg/logger"
)

const (
	cacheKey = "products"
	cacheTTL = 5 * time.Minute
)

// Service provides business logic for the Product catalog.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new Product service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns all products, served through the cache.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return cache.GetOrFetch(ctx, s.cache, cacheKey, cacheTTL, s.repo.List, nil)
}

// GetByID retrieves a single product by id.
func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a product, auto-detecting the category from the name when
// the caller has not set one.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	AutoCategorize(&p)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx)
	return created, nil
}

// Update modifies product fields.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (Product, error) {
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// MergeResult reports how a merge went. Re-pointing stops on the first
// failure; Failed counts the references left untouched. There is no
// rollback of the references already moved.
type MergeResult struct {
	Moved  int `json:"moved"`
	Failed int `json:"failed"`

	// DuplicateDeleted reports whether the duplicate product itself was
	// removed. It is only attempted when every reference moved.
	DuplicateDeleted bool `json:"duplicateDeleted"`
}

// Merge re-points every stock/reception/order reference from duplicateID
// to primaryID and then removes the duplicate product.
func (s *Service) Merge(ctx context.Context, primaryID, duplicateID string) (MergeResult, error) {
	if primaryID == duplicateID {
		return MergeResult{}, apperror.NewValidation("cannot merge a product into itself").
			WithDetail("productId", primaryID)
	}
	if _, err := s.repo.GetByID(ctx, primaryID); err != nil {
		return MergeResult{}, fmt.Errorf("load merge target: %w", err)
	}

	refs, err := s.repo.ReferencingRecords(ctx, duplicateID)
	if err != nil {
		return MergeResult{}, fmt.Errorf("list duplicate references: %w", err)
	}

	var result MergeResult
	for i, ref := range refs {
		if err := s.repo.RepointReference(ctx, ref, duplicateID, primaryID); err != nil {
			result.Failed = len(refs) - i
			logger.Warn(ctx, "product merge stopped",
				"primary", primaryID,
				"duplicate", duplicateID,
				"moved", result.Moved,
				"failed", result.Failed,
				"error", err)
			s.invalidate(ctx)
			return result, fmt.Errorf("repoint %s/%s: %w", ref.Collection, ref.RecordID, err)
		}
		result.Moved++
	}

	if err := s.repo.Delete(ctx, duplicateID); err != nil {
		s.invalidate(ctx)
		return result, fmt.Errorf("delete duplicate product: %w", err)
	}
	result.DuplicateDeleted = true

	s.invalidate(ctx)
	return result, nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKey)
	s.cache.Invalidate(ctx, "stocks")
	s.cache.Invalidate(ctx, "dashboard")
}
