package reconcile

import (
	"context"
	"time"

	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/domain/documents/order"
	"alcosklad/internal/domain/documents/reception"
	"alcosklad/internal/domain/documents/writeoff"
	"alcosklad/internal/domain/registers/stock"
	"alcosklad/internal/recordstore"
	"alcosklad/pkg/logger"
)

// Request asks for a stock trend over [From, To]. A zero To means "now".
type Request struct {
	From time.Time
	To   time.Time

	// CityID plots a single city, even at zero current stock.
	CityID string

	// Flat draws the current level across the range instead of the
	// reconstructed trend.
	Flat bool
}

// Service assembles reconciliation inputs from the collection services
// and builds the series.
type Service struct {
	stocks     *stock.Service
	receptions *reception.Service
	orders     *order.Service
	writeOffs  *writeoff.Service
	suppliers  *supplier.Service
	loc        *time.Location
}

// NewService creates a reconciliation service. loc is the business
// timezone used to bucket events into calendar days.
func NewService(
	stocks *stock.Service,
	receptions *reception.Service,
	orders *order.Service,
	writeOffs *writeoff.Service,
	suppliers *supplier.Service,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		stocks:     stocks,
		receptions: receptions,
		orders:     orders,
		writeOffs:  writeOffs,
		suppliers:  suppliers,
		loc:        loc,
	}
}

// StockTrend builds the day-indexed stock series for the request. All
// collection loads are tolerant: a failed load contributes an empty
// slice and the series is built from what did load.
func (s *Service) StockTrend(ctx context.Context, req Request) (Series, error) {
	to := req.To
	if to.IsZero() {
		to = time.Now()
	}

	sups, err := s.suppliers.List(ctx)
	if err != nil {
		logger.Warn(ctx, "supplier load failed, resolving against empty catalog", "error", err)
		sups = nil
	}
	resolver := NewResolver(sups)

	entries, err := s.stocks.List(ctx)
	if err != nil {
		logger.Warn(ctx, "stock load failed, reconciling from empty snapshot", "error", err)
		entries = nil
	}

	in := Input{
		Start:      Day(req.From, s.loc),
		End:        Day(to, s.loc),
		Current:    stock.CurrentByCity(entries),
		FilterCity: req.CityID,
		Flat:       req.Flat,
	}
	in.Additions = s.receptionEvents(ctx, resolver)
	removals, refundless := s.orderEvents(ctx, resolver)
	in.Removals = append(removals, s.writeOffEvents(ctx, resolver)...)

	logger.Debug(ctx, "reconciliation inputs assembled",
		"cities", len(in.Current),
		"additions", len(in.Additions),
		"removals", len(in.Removals),
		"refunds_skipped", refundless)

	series := BuildSeries(in)
	for i := range series.Cities {
		series.Cities[i].Name = resolver.Name(series.Cities[i].ID)
	}
	return series, nil
}

func (s *Service) receptionEvents(ctx context.Context, resolver *Resolver) []Event {
	receptions, err := s.receptions.List(ctx)
	if err != nil {
		logger.Warn(ctx, "reception load failed, series omits additions", "error", err)
		return nil
	}

	var events []Event
	for _, r := range receptions {
		src := Source{CityName: r.City, SupplierID: r.Supplier}
		if r.Expand.Supplier != nil {
			src.RelationName = r.Expand.Supplier.Name
		}
		if e, ok := s.event(src, resolver, r.EffectiveDate(), r.TotalQuantity()); ok {
			events = append(events, e)
		}
	}
	return events
}

func (s *Service) orderEvents(ctx context.Context, resolver *Resolver) (events []Event, refunds int) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		logger.Warn(ctx, "order load failed, series omits sales", "error", err)
		return nil, 0
	}

	for _, o := range orders {
		if o.IsRefund() {
			refunds++
			continue
		}
		src := Source{CityName: o.City, SupplierID: o.Supplier}
		if o.Expand.Supplier != nil {
			src.RelationName = o.Expand.Supplier.Name
		}
		if e, ok := s.event(src, resolver, o.Created, o.TotalQuantity()); ok {
			events = append(events, e)
		}
	}
	return events, refunds
}

func (s *Service) writeOffEvents(ctx context.Context, resolver *Resolver) []Event {
	writeOffs, err := s.writeOffs.List(ctx)
	if err != nil {
		logger.Warn(ctx, "write-off load failed, series omits write-offs", "error", err)
		return nil
	}

	var events []Event
	for _, w := range writeOffs {
		if !w.IsActive() {
			continue
		}
		src := Source{CityName: w.City, SupplierID: w.Supplier}
		if w.Expand.Supplier != nil {
			src.RelationName = w.Expand.Supplier.Name
		}
		if e, ok := s.event(src, resolver, w.Created, w.Quantity); ok {
			events = append(events, e)
		}
	}
	return events
}

// event normalizes one movement: malformed dates and unresolvable cities
// drop the event, they never corrupt the rest of the series.
func (s *Service) event(src Source, resolver *Resolver, at recordstore.Time, qty int) (Event, bool) {
	if at.IsZero() || qty <= 0 {
		return Event{}, false
	}
	cityID, ok := resolver.Resolve(src)
	if !ok {
		return Event{}, false
	}
	return Event{Day: Day(at.Time, s.loc), CityID: cityID, Qty: qty}, true
}
