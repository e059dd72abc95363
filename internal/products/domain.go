package products

import (
	"time"
)

// ============================================================================
// PRODUCT
// ============================================================================

// Product is one catalog entry, always scoped to a tenant. Sale items carry
// a snapshot of the name and price at checkout, so later edits here never
// rewrite history.
type Product struct {
	ID            int64      `json:"id" db:"id"`
	TenantID      int64      `json:"tenant_id" db:"tenant_id"`
	SKU           string     `json:"sku" db:"sku"`
	Name          string     `json:"name" db:"name"`
	Description   *string    `json:"description,omitempty" db:"description"`
	Price         float64    `json:"price" db:"price"`
	Cost          *float64   `json:"cost,omitempty" db:"cost"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	TenantID      int64    `json:"tenant_id" validate:"required,gt=0"`
	SKU           string   `json:"sku" validate:"required,max=50"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"gte=0"`
	Cost          *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Cost          *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	TenantID int64   `json:"tenant_id" validate:"required,gt=0"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Page     int     `json:"page" validate:"gte=0"`
	PerPage  int     `json:"per_page" validate:"gte=0,lte=200"`
}
