package products

import (
	"context"
	"fmt"
)

// Store abstracts catalog persistence so the service can be tested without
// a database.
type Store interface {
	Get(ctx context.Context, tenantID, id int64) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, tenantID, id int64, updates map[string]any) (*Product, error)
	Delete(ctx context.Context, tenantID, id int64) error
}

// Service provides business logic for the product catalog.
type Service struct {
	repo Store
}

// NewService constructs a products service.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create adds a catalog entry. New products start active.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	product := Product{
		TenantID:      req.TenantID,
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Cost:          req.Cost,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// Update applies a partial update to an existing product.
func (s *Service) Update(ctx context.Context, tenantID, id int64, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	updated, err := s.repo.Update(ctx, tenantID, id, updates)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Get retrieves one product.
func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Product, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// List returns a page of the tenant's catalog.
func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

// Delete soft-deletes a product.
func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	return s.repo.Delete(ctx, tenantID, id)
}
