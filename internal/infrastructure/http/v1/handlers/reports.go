package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"alcosklad/internal/core/apperror"
	"alcosklad/internal/domain/reports/dashboard"
	"alcosklad/internal/domain/reports/reconcile"
)

// ReportsHandler serves the dashboard and the stock trend report.
type ReportsHandler struct {
	*BaseHandler
	dashboard *dashboard.Service
	reconcile *reconcile.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, dash *dashboard.Service, rec *reconcile.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, dashboard: dash, reconcile: rec}
}

// Dashboard returns the aggregate stats: stock valuation, sales
// windows and stale products.
// GET /api/v1/reports/dashboard
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// StockTrend reconstructs per-city stock levels over a date range by
// replaying document movements backwards from the current state.
// GET /api/v1/reports/stock-trend?from=2024-01-01&to=2024-01-31&city=<id>&flat=true
func (h *ReportsHandler) StockTrend(c *gin.Context) {
	from, ok := h.parseDate(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseDate(c, "to")
	if !ok {
		return
	}
	if to.Before(from) {
		h.Error(c, apperror.NewValidation("to must not be before from"))
		return
	}

	series, err := h.reconcile.StockTrend(c.Request.Context(), reconcile.Request{
		From:   from,
		To:     to,
		CityID: c.Query("city"),
		Flat:   h.ParseBoolQuery(c, "flat"),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, series)
}

func (h *ReportsHandler) parseDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.Error(c, apperror.NewValidation(name+" is required"))
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation(name+" must be YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}
