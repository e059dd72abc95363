package sales

import (
	"time"
)

// ============================================================================
// SALE
// ============================================================================

// Sale is one completed checkout. Sales and their items are immutable once
// written; corrections happen through new sales, so the analytics history
// never shifts under a report.
type Sale struct {
	ID          int64      `json:"id" db:"id"`
	TenantID    int64      `json:"tenant_id" db:"tenant_id"`
	Reference   string     `json:"reference" db:"reference"`
	OccurredAt  time.Time  `json:"occurred_at" db:"occurred_at"`
	TotalAmount float64    `json:"total_amount" db:"total_amount"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Items       []SaleItem `json:"items,omitempty" db:"-"`
}

// SaleItem is one line of a sale. ProductName and UnitPrice are snapshots
// taken at checkout; later catalog edits do not touch them.
type SaleItem struct {
	ID          int64   `json:"id" db:"id"`
	SaleID      int64   `json:"sale_id" db:"sale_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	LineTotal   float64 `json:"line_total" db:"line_total"`
}

type CreateSaleRequest struct {
	TenantID   int64               `json:"tenant_id" validate:"required,gt=0"`
	OccurredAt *time.Time          `json:"occurred_at,omitempty"`
	Notes      *string             `json:"notes,omitempty"`
	Items      []CreateSaleItemReq `json:"items" validate:"required,min=1,dive"`
}

type CreateSaleItemReq struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	// UnitPrice overrides the catalog price when set, e.g. for a
	// negotiated discount. Zero means "charge the catalog price".
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
}

type ListSalesRequest struct {
	TenantID int64      `json:"tenant_id" validate:"required,gt=0"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Page     int        `json:"page" validate:"gte=0"`
	PerPage  int        `json:"per_page" validate:"gte=0,lte=200"`
}
