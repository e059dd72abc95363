package analytics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads the raw sale history analytics is computed from.
type Repository interface {
	FetchSales(ctx context.Context, tenantID int64, from, to time.Time) ([]SaleRecord, error)
	FetchSaleItems(ctx context.Context, tenantID int64, from, to time.Time) ([]SaleItemRecord, error)
	ListActiveTenantIDs(ctx context.Context) ([]int64, error)
}

// PostgresRepository provides PostgreSQL backed reads over the immutable
// sales tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const fetchSalesQuery = `
SELECT id, tenant_id, occurred_at, total_amount
FROM sales
WHERE tenant_id = $1 AND occurred_at >= $2 AND occurred_at < $3
ORDER BY occurred_at, id`

// FetchSales returns the tenant's sales inside [from, to), oldest first.
// total_amount is scanned as a raw value because legacy rows mix numeric,
// text and null representations.
func (r *PostgresRepository) FetchSales(ctx context.Context, tenantID int64, from, to time.Time) ([]SaleRecord, error) {
	rows, err := r.pool.Query(ctx, fetchSalesQuery, tenantID, from, to)
	if err != nil {
		return nil, classifyError("analytics: fetch sales", err)
	}
	defer rows.Close()

	var sales []SaleRecord
	for rows.Next() {
		var s SaleRecord
		if err := rows.Scan(&s.ID, &s.TenantID, &s.OccurredAt, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("analytics: scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("analytics: fetch sales", err)
	}
	return sales, nil
}

const fetchSaleItemsQuery = `
SELECT si.id, si.sale_id, si.product_id, si.product_name, si.unit_price, si.quantity, s.occurred_at
FROM sale_items si
JOIN sales s ON s.id = si.sale_id
WHERE s.tenant_id = $1 AND s.occurred_at >= $2 AND s.occurred_at < $3
ORDER BY s.occurred_at, si.id`

// FetchSaleItems returns the tenant's sale lines inside [from, to), oldest
// first so the latest row of a product carries its current price.
func (r *PostgresRepository) FetchSaleItems(ctx context.Context, tenantID int64, from, to time.Time) ([]SaleItemRecord, error) {
	rows, err := r.pool.Query(ctx, fetchSaleItemsQuery, tenantID, from, to)
	if err != nil {
		return nil, classifyError("analytics: fetch sale items", err)
	}
	defer rows.Close()

	var items []SaleItemRecord
	for rows.Next() {
		var it SaleItemRecord
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.SoldAt); err != nil {
			return nil, fmt.Errorf("analytics: scan sale item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("analytics: fetch sale items", err)
	}
	return items, nil
}

const listActiveTenantsQuery = `
SELECT id FROM tenants WHERE is_active ORDER BY id`

// ListActiveTenantIDs feeds the warmup job with the tenants worth
// precomputing.
func (r *PostgresRepository) ListActiveTenantIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, listActiveTenantsQuery)
	if err != nil {
		return nil, classifyError("analytics: list tenants", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("analytics: scan tenant id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("analytics: list tenants", err)
	}
	return ids, nil
}

// classifyError separates "the database is unreachable" from query-level
// failures so the transport can answer 503 instead of a generic 500.
func classifyError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrDatabaseUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exceptions, class 53 insufficient
		// resources, 57P admin shutdown.
		switch {
		case len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "53"):
			return true
		case len(pgErr.Code) >= 3 && pgErr.Code[:3] == "57P":
			return true
		}
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
