package handlers

import (
	"github.com/gin-gonic/gin"

	"alcosklad/internal/domain/documents/writeoff"
	"alcosklad/internal/infrastructure/http/v1/dto"
)

// WriteOffHandler serves write-off documents.
type WriteOffHandler struct {
	*BaseHandler
	writeOffs *writeoff.Service
}

// NewWriteOffHandler creates a write-off handler.
func NewWriteOffHandler(base *BaseHandler, writeOffs *writeoff.Service) *WriteOffHandler {
	return &WriteOffHandler{BaseHandler: base, writeOffs: writeOffs}
}

// List returns all write-offs, cancelled ones included.
// GET /api/v1/writeoffs
func (h *WriteOffHandler) List(c *gin.Context) {
	writeOffs, err := h.writeOffs.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(writeOffs))
}

// Create writes off stock for one product in one city.
// POST /api/v1/writeoffs
func (h *WriteOffHandler) Create(c *gin.Context) {
	var req dto.CreateWriteOffRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w, err := h.writeOffs.Create(c.Request.Context(), toWriteOff(req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, w.ID)
}

// CreateBatch writes off several lines in one call; lines succeed and
// fail independently.
// POST /api/v1/writeoffs/batch
func (h *WriteOffHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchWriteOffRequest
	if !h.BindJSON(c, &req) {
		return
	}

	writeOffs := make([]writeoff.WriteOff, 0, len(req.Items))
	for _, it := range req.Items {
		writeOffs = append(writeOffs, toWriteOff(it))
	}

	h.OK(c, h.writeOffs.CreateBatch(c.Request.Context(), writeOffs))
}

// Cancel reverses a write-off, returning its units to stock. The
// document stays, marked cancelled.
// POST /api/v1/writeoffs/:id/cancel
func (h *WriteOffHandler) Cancel(c *gin.Context) {
	w, err := h.writeOffs.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, w)
}

func toWriteOff(req dto.CreateWriteOffRequest) writeoff.WriteOff {
	return writeoff.WriteOff{
		Product:  req.Product,
		Supplier: req.Supplier,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	}
}
