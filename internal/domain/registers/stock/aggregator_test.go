package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcosklad/internal/core/types"
	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/domain/catalogs/supplier"
)

func expanded(id, supplierID string, qty int, p *product.Product, s *supplier.Supplier) Entry {
	return Entry{
		ID:       id,
		Product:  p.ID,
		Supplier: supplierID,
		Quantity: qty,
		Expand:   EntryExpand{Product: p, Supplier: s},
	}
}

func TestAggregate_SumsAcrossCities(t *testing.T) {
	cognac := &product.Product{ID: "p1", Name: "Коньяк Арарат", Cost: types.NewMoney(100), Price: types.NewMoney(150)}
	vg := &supplier.Supplier{ID: "c1", Name: "Волгоград"}
	spb := &supplier.Supplier{ID: "c2", Name: "Санкт-Петербург"}
	nsk := &supplier.Supplier{ID: "c3", Name: "Новосибирск"}

	rows := Aggregate([]Entry{
		expanded("s1", "c1", 4, cognac, vg),
		expanded("s2", "c2", 10, cognac, spb),
		expanded("s3", "c3", 1, cognac, nsk),
	}, AggregateOptions{})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Коньяк Арарат", row.Product.Name)
	assert.Equal(t, 15, row.Quantity)
	require.Len(t, row.CityBreakdown, 3)

	// Total equals the sum of all city quantities.
	sum := 0
	for _, c := range row.CityBreakdown {
		sum += c.Quantity
	}
	assert.Equal(t, row.Quantity, sum)

	// Breakdown sorted by quantity descending.
	assert.Equal(t, "Санкт-Петербург", row.CityBreakdown[0].SupplierName)
	assert.Equal(t, 10, row.CityBreakdown[0].Quantity)
	assert.Equal(t, "Новосибирск", row.CityBreakdown[2].SupplierName)
}

func TestAggregate_FragmentedRowsSumTransparently(t *testing.T) {
	vodka := &product.Product{ID: "p1", Name: "Водка Белуга"}
	vg := &supplier.Supplier{ID: "c1", Name: "Волгоград"}

	rows := Aggregate([]Entry{
		expanded("s1", "c1", 3, vodka, vg),
		expanded("s2", "c1", 5, vodka, vg),
	}, AggregateOptions{})

	require.Len(t, rows, 1)
	assert.Equal(t, 8, rows[0].Quantity)
	require.Len(t, rows[0].CityBreakdown, 1, "one city, one breakdown entry")
	assert.Equal(t, 8, rows[0].CityBreakdown[0].Quantity)
}

func TestAggregate_UnresolvedProductStillCounts(t *testing.T) {
	rows := Aggregate([]Entry{
		{ID: "s1", Product: "ghost-id", Supplier: "c1", Quantity: 7},
	}, AggregateOptions{})

	require.Len(t, rows, 1)
	assert.Equal(t, "ghost-id", rows[0].Product.ID)
	assert.Empty(t, rows[0].Product.Name)
	assert.Equal(t, 7, rows[0].Quantity)
}

func TestAggregate_ZeroAndNegativeQuantities(t *testing.T) {
	beer := &product.Product{ID: "p1", Name: "Пиво"}
	gone := &product.Product{ID: "p2", Name: "Сидр"}
	vg := &supplier.Supplier{ID: "c1", Name: "Волгоград"}
	spb := &supplier.Supplier{ID: "c2", Name: "Санкт-Петербург"}

	entries := []Entry{
		expanded("s1", "c1", 6, beer, vg),
		expanded("s2", "c2", 0, beer, spb),
		expanded("s3", "c2", -2, beer, spb),
		expanded("s4", "c1", 0, gone, vg),
	}

	rows := Aggregate(entries, AggregateOptions{})
	require.Len(t, rows, 1, "zero-total products hidden by default")
	assert.Equal(t, "Пиво", rows[0].Product.Name)
	// Negative fragments still lower the total, but cities at or below
	// zero never appear in the breakdown.
	assert.Equal(t, 4, rows[0].Quantity)
	require.Len(t, rows[0].CityBreakdown, 1)
	assert.Equal(t, "c1", rows[0].CityBreakdown[0].SupplierID)

	withZero := Aggregate(entries, AggregateOptions{IncludeZeroTotals: true})
	assert.Len(t, withZero, 2, "stale-product queries see zero-total rows")
}

func TestAggregate_CostResolution(t *testing.T) {
	wine := &product.Product{ID: "p1", Name: "Вино", Cost: types.NewMoney(300)}
	vg := &supplier.Supplier{ID: "c1", Name: "Волгоград"}

	overridden := expanded("s1", "c1", 2, wine, vg)
	overridden.Cost = types.NewMoney(280)
	rows := Aggregate([]Entry{overridden}, AggregateOptions{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Cost.Equal(types.NewMoney(280)), "entry override wins")

	rows = Aggregate([]Entry{expanded("s2", "c1", 2, wine, vg)}, AggregateOptions{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Cost.Equal(types.NewMoney(300)), "falls back to product cost")
}

func TestAggregated_DerivedValues(t *testing.T) {
	// Reception of 10, order consumes 3, write-off removes 2: 5 on hand.
	p := &product.Product{ID: "p1", Name: "Коньяк", Cost: types.NewMoney(100), Price: types.NewMoney(150)}
	vg := &supplier.Supplier{ID: "c1", Name: "Волгоград"}

	rows := Aggregate([]Entry{expanded("s1", "c1", 5, p, vg)}, AggregateOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Quantity)
	assert.True(t, rows[0].StockValue().Equal(types.NewMoney(750)), "5 × 150")
	assert.True(t, rows[0].MarginValue().Equal(types.NewMoney(250)), "5 × (150 − 100)")
}

func TestCurrentByCity(t *testing.T) {
	p := &product.Product{ID: "p1"}
	q := &product.Product{ID: "p2"}
	vg := &supplier.Supplier{ID: "c1", Name: "Волгоград"}

	totals := CurrentByCity([]Entry{
		expanded("s1", "c1", 3, p, vg),
		expanded("s2", "c1", 4, q, vg),
		expanded("s3", "c2", -1, p, nil),
	})
	assert.Equal(t, map[string]int{"c1": 7}, totals)
}
