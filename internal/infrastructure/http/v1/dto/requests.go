package dto

import (
	"alcosklad/internal/core/types"
)

// --- Products ---

// CreateProductRequest for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Article     string  `json:"article"`
	Cost        float64 `json:"cost" binding:"min=0"`
	Price       float64 `json:"price" binding:"min=0"`
}

// UpdateProductRequest for partial product updates.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Article     *string  `json:"article"`
	Cost        *float64 `json:"cost"`
	Price       *float64 `json:"price"`
}

// Fields converts the set pointers into a partial-update map.
func (r UpdateProductRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	if r.Subcategory != nil {
		fields["subcategory"] = *r.Subcategory
	}
	if r.Article != nil {
		fields["article"] = *r.Article
	}
	if r.Cost != nil {
		fields["cost"] = *r.Cost
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	return fields
}

// MergeProductsRequest merges a duplicate product into a primary one.
type MergeProductsRequest struct {
	PrimaryID   string `json:"primaryId" binding:"required"`
	DuplicateID string `json:"duplicateId" binding:"required"`
}

// --- Suppliers ---

// CreateSupplierRequest for creating a supplier/city.
type CreateSupplierRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code"`
}

// --- Stock ---

// SetQuantityRequest forces the quantity for one (product, city) pair.
type SetQuantityRequest struct {
	Product  string `json:"product" binding:"required"`
	Supplier string `json:"supplier" binding:"required"`
	Quantity int    `json:"quantity"`
}

// --- Receptions ---

// ReceptionItemRequest is one incoming line.
type ReceptionItemRequest struct {
	Product  string  `json:"product" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Cost     float64 `json:"cost" binding:"min=0"`
}

// CreateReceptionRequest for creating a reception.
type CreateReceptionRequest struct {
	Supplier    string                 `json:"supplier" binding:"required"`
	Stores      []string               `json:"stores"`
	Items       []ReceptionItemRequest `json:"items" binding:"required,min=1,dive"`
	BatchNumber string                 `json:"batchNumber"`
	Date        string                 `json:"date"`
}

// --- Orders ---

// OrderItemRequest is one sale line.
type OrderItemRequest struct {
	Product  string  `json:"product" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Price    float64 `json:"price" binding:"min=0"`
}

// CreateOrderRequest for creating a sale.
type CreateOrderRequest struct {
	Supplier      string             `json:"supplier"`
	City          string             `json:"city"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string             `json:"paymentMethod"`
}

// --- Write-offs ---

// CreateWriteOffRequest for writing off stock.
type CreateWriteOffRequest struct {
	Product  string `json:"product" binding:"required"`
	Supplier string `json:"supplier" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason"`
}

// BatchWriteOffRequest writes off several products in one call.
type BatchWriteOffRequest struct {
	Items []CreateWriteOffRequest `json:"items" binding:"required,min=1,dive"`
}

// Money converts a request float into the money representation.
func Money(v float64) types.Money {
	return types.NewMoney(v)
}
