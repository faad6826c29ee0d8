package handlers

import (
	"github.com/gin-gonic/gin"

	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/infrastructure/http/v1/dto"
)

// SupplierHandler serves the supplier/city catalog.
type SupplierHandler struct {
	*BaseHandler
	suppliers *supplier.Service
}

// NewSupplierHandler creates a supplier handler.
func NewSupplierHandler(base *BaseHandler, suppliers *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, suppliers: suppliers}
}

// List returns all suppliers.
// GET /api/v1/suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.suppliers.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(suppliers))
}

// Get returns one supplier by id.
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	sup, err := h.suppliers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sup)
}

// Create adds a supplier. The order-number code is derived from the
// name when not given.
// POST /api/v1/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.suppliers.Create(c.Request.Context(), supplier.Supplier{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sup.ID)
}

// Update patches the given supplier fields.
// PATCH /api/v1/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	var fields map[string]any
	if !h.BindJSON(c, &fields) {
		return
	}

	sup, err := h.suppliers.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sup)
}

// Delete removes a supplier.
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
