package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcosklad/internal/domain/documents/order"
	"alcosklad/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves sale documents.
type OrderHandler struct {
	*BaseHandler
	orders *order.Service
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(base *BaseHandler, orders *order.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, orders: orders}
}

// List returns all orders, newest first.
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(orders))
}

// Get returns one order by id.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// Create sells against a city's stock, consuming the oldest batches
// first and assigning the next "{CODE}-{NNNN}" number.
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.Item{
			Product:  it.Product,
			Quantity: it.Quantity,
			Price:    dto.Money(it.Price),
		})
	}

	o, err := h.orders.Create(c.Request.Context(), order.Order{
		Supplier:      req.Supplier,
		City:          req.City,
		Items:         items,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// Refund reverses a completed order, returning its units to stock.
// POST /api/v1/orders/:id/refund
func (h *OrderHandler) Refund(c *gin.Context) {
	o, err := h.orders.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// Delete removes an order record without touching stock.
// DELETE /api/v1/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
