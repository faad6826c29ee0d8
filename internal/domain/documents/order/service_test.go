package order

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
	"alcosklad/internal/domain/catalogs/supplier"
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
	orders map[string]Order
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[string]Order)}
}

func (m *memRepo) List(context.Context) ([]Order, error) {
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, apperror.NewNotFound("order", id)
	}
	return o, nil
}

func (m *memRepo) Create(_ context.Context, o Order) (Order, error) {
	m.nextID++
	o.ID = fmt.Sprintf("o%d", m.nextID)
	m.orders[o.ID] = o
	return o, nil
}

func (m *memRepo) Update(_ context.Context, id string, fields map[string]any) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, apperror.NewNotFound("order", id)
	}
	if status, ok := fields["status"]; ok {
		o.Status = Status(status.(string))
	}
	m.orders[id] = o
	return o, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

func (m *memRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	last := ""
	for _, o := range m.orders {
		if len(o.Number) > len(prefix) && o.Number[:len(prefix)+1] == prefix+"-" && o.Number > last {
			last = o.Number
		}
	}
	return last, nil
}

type memSupplierRepo struct {
	suppliers map[string]supplier.Supplier
}

func (m *memSupplierRepo) List(context.Context) ([]supplier.Supplier, error) {
	out := make([]supplier.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSupplierRepo) GetByID(_ context.Context, id string) (supplier.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return supplier.Supplier{}, apperror.NewNotFound("supplier", id)
	}
	return s, nil
}

func (m *memSupplierRepo) Create(_ context.Context, s supplier.Supplier) (supplier.Supplier, error) {
	m.suppliers[s.ID] = s
	return s, nil
}

func (m *memSupplierRepo) Update(_ context.Context, id string, _ map[string]any) (supplier.Supplier, error) {
	return m.suppliers[id], nil
}

func (m *memSupplierRepo) Delete(_ context.Context, id string) error {
	delete(m.suppliers, id)
	return nil
}

func newTestService(stockRepo stock.Repository, repo Repository, cityName string) *Service {
	c := cache.New(nil)
	suppliers := supplier.NewService(&memSupplierRepo{suppliers: map[string]supplier.Supplier{
		"c1": {ID: "c1", Name: cityName},
	}}, c)
	return NewService(repo, stock.NewService(stockRepo, c), suppliers, c)
}

func TestCreate_AssignsCityScopedNumber(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 10, CostPerUnit: types.NewMoney(100)})

	svc := newTestService(stockRepo, newMemRepo(), "Волгоград")
	created, err := svc.Create(context.Background(), Order{
		Supplier: "c1",
		Items:    []Item{{Product: "p1", Quantity: 2, Price: types.NewMoney(150)}},
	})
	require.NoError(t, err)

	assert.Equal(t, "VG-0001", created.Number)
	assert.Equal(t, StatusCompleted, created.Status)
	assert.Equal(t, PaymentCash, created.PaymentMethod)
	assert.True(t, created.Total.Equal(types.NewMoney(300)), "got %s", created.Total)
	assert.Equal(t, 8, stockRepo.total("p1", "c1"))
}

func TestCreate_DuplicateProductLinesDrawFromOnePool(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 5})

	// Each line alone fits the available 5 units; together they ask for 6.
	repo := newMemRepo()
	svc := newTestService(stockRepo, repo, "Волгоград")
	_, err := svc.Create(context.Background(), Order{
		Supplier: "c1",
		Items: []Item{
			{Product: "p1", Quantity: 3, Price: types.NewMoney(150)},
			{Product: "p1", Quantity: 3, Price: types.NewMoney(150)},
		},
	})
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 6, appErr.Details["requested"])
	assert.Equal(t, 5, appErr.Details["available"])
	assert.Equal(t, 5, stockRepo.total("p1", "c1"), "stock untouched")
	assert.Empty(t, repo.orders, "no order stored")
}

func TestCreate_UnknownCityRejected(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 10})

	svc := newTestService(stockRepo, newMemRepo(), "Лондон")
	_, err := svc.Create(context.Background(), Order{
		Supplier: "c1",
		Items:    []Item{{Product: "p1", Quantity: 1, Price: types.NewMoney(150)}},
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeResolution, appErr.Code)
	assert.Equal(t, 10, stockRepo.total("p1", "c1"), "stock untouched")
}

func TestRefund_ReturnsUnitsToStock(t *testing.T) {
	stockRepo := newMemStockRepo()
	stockRepo.add(stock.Entry{Product: "p1", Supplier: "c1", Quantity: 10, CostPerUnit: types.NewMoney(100)})

	svc := newTestService(stockRepo, newMemRepo(), "Волгоград")
	ctx := context.Background()

	created, err := svc.Create(ctx, Order{
		Supplier: "c1",
		Items:    []Item{{Product: "p1", Quantity: 3, Price: types.NewMoney(150)}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, stockRepo.total("p1", "c1"))

	refunded, err := svc.Refund(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRefund, refunded.Status)
	assert.Equal(t, 10, stockRepo.total("p1", "c1"))

	_, err = svc.Refund(ctx, created.ID)
	require.Error(t, err, "double refund rejected")
}
