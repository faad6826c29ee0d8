package handlers

import (
	"github.com/gin-gonic/gin"

	"alcosklad/internal/domain/registers/stock"
	"alcosklad/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock register.
type StockHandler struct {
	*BaseHandler
	stocks *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, stocks *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, stocks: stocks}
}

// List returns raw stock entries, optionally for one city.
// GET /api/v1/stocks?supplier=<id>
func (h *StockHandler) List(c *gin.Context) {
	supplierID := c.Query("supplier")

	var (
		entries []stock.Entry
		err     error
	)
	if supplierID == "" {
		entries, err = h.stocks.List(c.Request.Context())
	} else {
		entries, err = h.stocks.ListCity(c.Request.Context(), supplierID)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(entries))
}

// Aggregated returns one row per product with the per-city breakdown.
// GET /api/v1/stocks/aggregated?supplier=<id>&includeZero=true
func (h *StockHandler) Aggregated(c *gin.Context) {
	rows, err := h.stocks.Aggregated(c.Request.Context(), c.Query("supplier"), stock.AggregateOptions{
		IncludeZeroTotals: h.ParseBoolQuery(c, "includeZero"),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(rows))
}

// SetQuantity forces the quantity of one (product, city) pair,
// collapsing fragmented rows.
// PUT /api/v1/stocks/quantity
func (h *StockHandler) SetQuantity(c *gin.Context) {
	var req dto.SetQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.stocks.SetCityQuantity(c.Request.Context(), req.Product, req.Supplier, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "quantity updated")
}

// Availability reports the units on hand for one (product, city) pair.
// GET /api/v1/stocks/availability/:productId?supplier=<id>
func (h *StockHandler) Availability(c *gin.Context) {
	available, err := h.stocks.Available(c.Request.Context(), c.Param("productId"), c.Query("supplier"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"available": available})
}
