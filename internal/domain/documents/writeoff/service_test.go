package writeoff

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcosklad/internal/cache"
	"alcosklad/internal/core/apperror"
	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/registers/stock"
)

type memStockRepo struct {
	entries map[string]stock.Entry
	nextID  int
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{entries: make(map[string]stock.Entry)}
}

func (m *memStockRepo) add(e stock.Entry) stock.Entry {
	if e.ID == "" {
		m.nextID++
		e.ID = fmt.Sprintf("s%d", m.nextID)
	}
	m.entries[e.ID] = e
	return e
}

func (m *memStockRepo) ListAll(context.Context) ([]stock.Entry, error) {
	out := make([]stock.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStockRepo) ListByCity(_ context.Context, supplierID string) ([]stock.Entry, error) {
	var out []stock.Entry
	for _, e := range m.entries {
		if e.Supplier == supplierID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStockRepo) ListByProductCity(_ context.Context, productID, supplierID string) ([]stock.Entry, error) {
	var out []stock.Entry
	for _, e := range m.entries {
		if e.Product == productID && e.Supplier == supplierID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStockRepo) ListByReception(_ context.Context, receptionID string) ([]stock.Entry, error) {
	var out []stock.Entry
	for _, e := range m.entries {
		if e.Reception == receptionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStockRepo) Create(_ context.Context, e stock.Entry) (stock.Entry, error) {
	return m.add(e), nil
}

func (m *memStockRepo) Update(_ context.Context, id string, fields map[string]any) (stock.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return stock.Entry{}, apperror.NewNotFound("stock entry", id)
	}
	if q, ok := fields["quantity"]; ok {
		e.Quantity = q.(int)
	}
	if inc, ok := fields["quantity+"]; ok {
		e.Quantity += inc.(int)
	}
	m.entries[id] = e
	return e, nil
}

func (m *memStockRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *memStockRepo) total(productID, supplierID string) int {
	total := 0
	for _, e := range m.entries {
		if e.Product == productID && e.Supplier == supplierID {
			total += e.Quantity
		}
	}
	return total
}

type memRepo struct {
	writeOffs map[string]WriteOff
	nextID    int
}

func newMemRepo() *memRepo {
	return &memRepo{writeOffs: make(map[string]WriteOff)}
}

func (m *memRepo) List(context.Context) ([]WriteOff, error) {
	out := make([]WriteOff, 0, len(m.writeOffs))
	for _, w := range m.writeOffs {
		out = append(out, w)
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (WriteOff, error) {
	w, ok := m.writeOffs[id]
	if !ok {
		return WriteOff{}, apperror.NewNotFound("write-off", id)
	}
	return w, nil
}

func (m *memRepo) Create(_ context.Context, w WriteOff) (WriteOff, error) {
	m.nextID++
	w.ID = fmt.Sprintf("w%d", m.nextID)
	m.writeOffs[w.ID] = w
	return w, nil
}

func (m *memRepo) Update(_ context.Context, id string, fields map[string]any) (WriteOff, error) {
	w, ok := m.writeOffs[id]
	if !ok {
		return WriteOff{}, apperror.NewNotFound("write-off", id)
	}
	if status, ok := fields["status"]; ok {
		w.Status = Status(status.(string))
	}
	m.writeOffs[id] = w
	return w, nil
}

func newTestService(stockRepo stock.Repository, repo Repository) *Service {
	c := cache.New(nil)
	return NewService(repo, stock.NewService(stockRepo, c), c)
}

func TestCreate_DecrementsStockAndRecordsCost(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 10, CostPerUnit: types.NewMoney(100)})

	svc := newTestService(stockRepo, newMemRepo())
	created, err := svc.Create(context.Background(), WriteOff{
		Product:  "p1",
		Supplier: "c1",
		Quantity: 2,
		Reason:   "бой при разгрузке",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusActive, created.Status)
	assert.True(t, created.CostPerUnit.Equal(types.NewMoney(100)))
	assert.Equal(t, 8, stockRepo.total("p1", "c1"))
}

func TestCreate_InsufficientStockRejected(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 1})

	svc := newTestService(stockRepo, newMemRepo())
	_, err := svc.Create(context.Background(), WriteOff{Product: "p1", Supplier: "c1", Quantity: 5})
	require.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 1, stockRepo.total("p1", "c1"), "stock untouched")
}

func TestCancel_RestoresStockAndKeepsAuditRow(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 10, CostPerUnit: types.NewMoney(100)})

	repo := newMemRepo()
	svc := newTestService(stockRepo, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, WriteOff{Product: "p1", Supplier: "c1", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 6, stockRepo.total("p1", "c1"))

	cancelled, err := svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, stockRepo.total("p1", "c1"))

	// Audit row survives cancellation.
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)

	// A second cancel is a business rule violation, stock stays put.
	_, err = svc.Cancel(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, 10, stockRepo.total("p1", "c1"))
}

func TestCreateBatch_CountsSuccessesAndFailures(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 5})
	stockRepo.add(stock.Entry{Product: "p2", Supplier: "c1", Quantity: 1})

	svc := newTestService(stockRepo, newMemRepo())
	result := svc.CreateBatch(context.Background(), []WriteOff{
		{Product: "p1", Supplier: "c1", Quantity: 2},
		{Product: "p2", Supplier: "c1", Quantity: 3}, // shortage
		{Product: "p1", Supplier: "c1", Quantity: 1},
	})

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 2, stockRepo.total("p1", "c1"))
	assert.Equal(t, 1, stockRepo.total("p2", "c1"), "failed line leaves its stock alone")
}
