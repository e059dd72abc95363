package tenants

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store abstracts tenant persistence so the service can be tested without
// a database.
type Store interface {
	Get(ctx context.Context, id int64) (*Tenant, error)
	Create(ctx context.Context, t Tenant) (*Tenant, error)
	Update(ctx context.Context, id int64, updates map[string]any) (*Tenant, error)
}

// Service provides business logic for tenant profiles.
type Service struct {
	repo Store
}

// NewService constructs a tenants service.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create registers a business account. New tenants start active with a
// freshly minted public id.
func (s *Service) Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	tenant := Tenant{
		PublicID: uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Currency: req.Currency,
		Timezone: req.Timezone,
		IsActive: true,
	}

	created, err := s.repo.Create(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return created, nil
}

// Update applies a partial profile update.
func (s *Service) Update(ctx context.Context, id int64, req UpdateTenantRequest) (*Tenant, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Timezone != nil {
		updates["timezone"] = *req.Timezone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.PaymentProvider != nil {
		updates["payment_provider"] = *req.PaymentProvider
	}
	if req.PaymentAccountID != nil {
		updates["payment_account_id"] = *req.PaymentAccountID
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	return updated, nil
}

// Get retrieves one tenant profile.
func (s *Service) Get(ctx context.Context, id int64) (*Tenant, error) {
	return s.repo.Get(ctx, id)
}
