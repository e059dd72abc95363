package tenants

import (
	"time"
)

// ============================================================================
// TENANT
// ============================================================================

// Tenant is one business account. PublicID is the identifier exposed in
// URLs and webhooks; the numeric ID stays internal.
type Tenant struct {
	ID        int64     `json:"id" db:"id"`
	PublicID  string    `json:"public_id" db:"public_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Currency  string    `json:"currency" db:"currency"`
	Timezone  string    `json:"timezone" db:"timezone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Payment provider settings filled in during onboarding. Secrets are
	// stored opaque and never returned in full by the API.
	PaymentProvider  *string `json:"payment_provider,omitempty" db:"payment_provider"`
	PaymentAccountID *string `json:"payment_account_id,omitempty" db:"payment_account_id"`
}

type CreateTenantRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Timezone string  `json:"timezone" validate:"required,max=64"`
}

type UpdateTenantRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address          *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Currency         *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Timezone         *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	IsActive         *bool   `json:"is_active,omitempty"`
	PaymentProvider  *string `json:"payment_provider,omitempty" validate:"omitempty,max=50"`
	PaymentAccountID *string `json:"payment_account_id,omitempty" validate:"omitempty,max=200"`
}
