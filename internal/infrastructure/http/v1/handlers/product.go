package handlers

import (
	"github.com/gin-gonic/gin"

	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	*BaseHandler
	products *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, products *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products}
}

// List returns all products.
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(products))
}

// Get returns one product by id.
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Create adds a product, deriving a category from the name when
// none is given.
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.products.Create(c.Request.Context(), product.Product{
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Article:     req.Article,
		Cost:        dto.Money(req.Cost),
		Price:       dto.Money(req.Price),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID)
}

// Update patches the given product fields.
// PATCH /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.products.Update(c.Request.Context(), c.Param("id"), req.Fields())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete removes a product.
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Merge repoints every record referencing the duplicate product at the
// primary one and deletes the duplicate once nothing points at it.
// POST /api/v1/products/merge
func (h *ProductHandler) Merge(c *gin.Context) {
	var req dto.MergeProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.products.Merge(c.Request.Context(), req.PrimaryID, req.DuplicateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
