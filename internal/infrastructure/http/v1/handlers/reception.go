package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"alcosklad/internal/core/apperror"
	"alcosklad/internal/domain/documents/reception"
	"alcosklad/internal/infrastructure/http/v1/dto"
	"alcosklad/internal/recordstore"
)

// ReceptionHandler serves incoming-stock documents.
type ReceptionHandler struct {
	*BaseHandler
	receptions *reception.Service
}

// NewReceptionHandler creates a reception handler.
func NewReceptionHandler(base *BaseHandler, receptions *reception.Service) *ReceptionHandler {
	return &ReceptionHandler{BaseHandler: base, receptions: receptions}
}

// List returns all receptions, newest first.
// GET /api/v1/receptions
func (h *ReceptionHandler) List(c *gin.Context) {
	receptions, err := h.receptions.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(receptions))
}

// Get returns one reception by id.
// GET /api/v1/receptions/:id
func (h *ReceptionHandler) Get(c *gin.Context) {
	r, err := h.receptions.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// Create records an incoming batch and opens a stock entry per line.
// POST /api/v1/receptions
func (h *ReceptionHandler) Create(c *gin.Context) {
	var req dto.CreateReceptionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var date recordstore.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			h.Error(c, apperror.NewValidation("date must be RFC3339"))
			return
		}
		date = recordstore.NewTime(parsed)
	}

	items := make([]reception.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, reception.Item{
			Product:  it.Product,
			Quantity: it.Quantity,
			Cost:     dto.Money(it.Cost),
		})
	}

	r, err := h.receptions.Create(c.Request.Context(), reception.Reception{
		Supplier:    req.Supplier,
		Stores:      req.Stores,
		Items:       items,
		BatchNumber: req.BatchNumber,
		Date:        date,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, r.ID)
}

// Update patches the given reception fields. Stock entries already
// created by the reception are not re-posted.
// PATCH /api/v1/receptions/:id
func (h *ReceptionHandler) Update(c *gin.Context) {
	var fields map[string]any
	if !h.BindJSON(c, &fields) {
		return
	}

	r, err := h.receptions.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// Delete removes a reception; with ?deleteStock=true the stock entries
// it created go with it.
// DELETE /api/v1/receptions/:id?deleteStock=true
func (h *ReceptionHandler) Delete(c *gin.Context) {
	deleteStock := h.ParseBoolQuery(c, "deleteStock")
	if err := h.receptions.Delete(c.Request.Context(), c.Param("id"), deleteStock); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
