package sales

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CacheInvalidator bumps the analytics cache version after a sale lands,
// so dashboards pick up the new revenue on their next request.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Service provides business logic for sale recording.
type Service struct {
	repo   Store
	cache  CacheInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a sales service. cache may be nil when no analytics
// cache is configured.
func NewService(repo Store, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// CreateSale records a checkout: snapshots product names and prices, checks
// stock, and writes the sale with its items in one transaction.
func (s *Service) CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	occurredAt := s.now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	sale := Sale{
		TenantID:   req.TenantID,
		Reference:  uuid.NewString(),
		OccurredAt: occurredAt,
		Notes:      req.Notes,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		items := make([]SaleItem, 0, len(req.Items))
		var total float64
		for _, itemReq := range req.Items {
			product, err := tx.GetProductForUpdate(ctx, req.TenantID, itemReq.ProductID)
			if err != nil {
				return err
			}

			unitPrice := product.Price
			if itemReq.UnitPrice != nil {
				unitPrice = *itemReq.UnitPrice
			}
			lineTotal := unitPrice * itemReq.Quantity
			total += lineTotal

			if err := tx.DecrementStock(ctx, req.TenantID, itemReq.ProductID, itemReq.Quantity); err != nil {
				return err
			}
			items = append(items, SaleItem{
				ProductID:   itemReq.ProductID,
				ProductName: product.Name,
				UnitPrice:   unitPrice,
				Quantity:    itemReq.Quantity,
				LineTotal:   lineTotal,
			})
		}

		sale.TotalAmount = total
		saleID, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = saleID

		for i := range items {
			items[i].SaleID = saleID
			id, err := tx.InsertSaleItem(ctx, items[i])
			if err != nil {
				return err
			}
			items[i].ID = id
		}
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	// Invalidation is best effort. A stale dashboard entry expires with the
	// TTL anyway; the sale itself is already committed.
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Error("bump analytics cache", slog.Any("error", err))
		}
	}

	return &sale, nil
}

// GetSale retrieves a sale with its items.
func (s *Service) GetSale(ctx context.Context, tenantID, id int64) (*Sale, error) {
	return s.repo.GetSale(ctx, tenantID, id)
}

// ListSales returns a page of the tenant's sales, newest first.
func (s *Service) ListSales(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	return s.repo.ListSales(ctx, req)
}
