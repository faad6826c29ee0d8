package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/apperror"
)

type fakeRepo struct {
	products map[string]Product
	refs     []Reference

	// failRepointAt makes RepointReference fail for that record id.
	failRepointAt string
	repointed     map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:  make(map[string]Product),
		repointed: make(map[string]string),
	}
}

func (f *fakeRepo) List(context.Context) ([]Product, error) {
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Product, error) {
	p, ok := f.products[id]
	if !ok {
		return Product{}, apperror.NewNotFound("product", id)
	}
	return p, nil
}

func (f *fakeRepo) Create(_ context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", len(f.products)+1)
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, _ map[string]any) (Product, error) {
	return f.products[id], nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) ReferencingRecords(_ context.Context, _ string) ([]Reference, error) {
	return f.refs, nil
}

func (f *fakeRepo) RepointReference(_ context.Context, ref Reference, _, toProductID string) error {
	if ref.RecordID == f.failRepointAt {
		return apperror.NewStore("update", fmt.Errorf("connection reset"))
	}
	f.repointed[ref.RecordID] = toProductID
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, cache.New(nil))
}

func TestMerge_RepointsAllReferencesAndDeletesDuplicate(t *testing.T) {
	repo := newFakeRepo()
	repo.products["prim"] = Product{ID: "prim", Name: "Коньяк Арарат"}
	repo.products["dup"] = Product{ID: "dup", Name: "коньяк арарат (дубль)"}
	repo.refs = []Reference{
		{Collection: "stocks", RecordID: "s1"},
		{Collection: "receptions", RecordID: "r1"},
		{Collection: "orders", RecordID: "o1"},
	}

	result, err := newTestService(repo).Merge(context.Background(), "prim", "dup")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Moved)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.DuplicateDeleted)

	assert.Equal(t, "prim", repo.repointed["s1"])
	assert.Equal(t, "prim", repo.repointed["o1"])
	_, exists := repo.products["dup"]
	assert.False(t, exists)
}

func TestMerge_StopsOnFirstFailureWithoutRollback(t *testing.T) {
	repo := newFakeRepo()
	repo.products["prim"] = Product{ID: "prim"}
	repo.products["dup"] = Product{ID: "dup"}
	repo.refs = []Reference{
		{Collection: "stocks", RecordID: "s1"},
		{Collection: "stocks", RecordID: "s2"},
		{Collection: "orders", RecordID: "o1"},
	}
	repo.failRepointAt = "s2"

	result, err := newTestService(repo).Merge(context.Background(), "prim", "dup")
	require.Error(t, err)
	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, 2, result.Failed)
	assert.False(t, result.DuplicateDeleted)

	// The already-moved reference stays moved.
	assert.Equal(t, "prim", repo.repointed["s1"])
	// The duplicate survives so the merge can be retried.
	_, exists := repo.products["dup"]
	assert.True(t, exists)
}

func TestMerge_RejectsSelfMerge(t *testing.T) {
	repo := newFakeRepo()
	repo.products["p1"] = Product{ID: "p1"}

	_, err := newTestService(repo).Merge(context.Background(), "p1", "p1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_AutoCategorizes(t *testing.T) {
	repo := newFakeRepo()
	created, err := newTestService(repo).Create(context.Background(), Product{Name: "Джин Bombay Sapphire 0.7л"})
	require.NoError(t, err)
	assert.Equal(t, "Крепкий алкоголь", created.Category)
	assert.Equal(t, "Джин", created.Subcategory)
}
