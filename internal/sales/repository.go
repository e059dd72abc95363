package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallystack/tallystack/internal/platform/db"
)

var (
	ErrNotFound          = errors.New("sale not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// checkoutProduct is the catalog snapshot a checkout works from.
type checkoutProduct struct {
	Name          string
	Price         float64
	StockQuantity int
}

// TxRepository exposes the operations available inside a checkout
// transaction.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, tenantID, productID int64) (checkoutProduct, error)
	DecrementStock(ctx context.Context, tenantID, productID int64, qty float64) error
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertSaleItem(ctx context.Context, item SaleItem) (int64, error)
}

// Store abstracts sale persistence so the service can be tested without a
// database.
type Store interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetSale(ctx context.Context, tenantID, id int64) (*Sale, error)
	ListSales(ctx context.Context, req ListSalesRequest) ([]Sale, int, error)
}

// Repository provides PostgreSQL backed persistence for sales.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in a repeatable-read transaction. Checkout reads the
// catalog and writes the sale in one unit so stock never goes negative under
// concurrent checkouts.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (t *txRepo) GetProductForUpdate(ctx context.Context, tenantID, productID int64) (checkoutProduct, error) {
	var p checkoutProduct
	err := t.tx.QueryRow(ctx,
		`SELECT name, price, stock_quantity FROM products
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL AND is_active
		 FOR UPDATE`, productID, tenantID).Scan(&p.Name, &p.Price, &p.StockQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return checkoutProduct{}, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	if err != nil {
		return checkoutProduct{}, fmt.Errorf("sales: load product: %w", err)
	}
	return p, nil
}

func (t *txRepo) DecrementStock(ctx context.Context, tenantID, productID int64, qty float64) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity - $3, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 AND stock_quantity >= $3`, productID, tenantID, qty)
	if err != nil {
		return fmt.Errorf("sales: decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}
	return nil
}

func (t *txRepo) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sales (tenant_id, reference, occurred_at, total_amount, notes)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sale.TenantID, sale.Reference, sale.OccurredAt, sale.TotalAmount, sale.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sales: insert sale: %w", err)
	}
	return id, nil
}

func (t *txRepo) InsertSaleItem(ctx context.Context, item SaleItem) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sale_items (sale_id, product_id, product_name, unit_price, quantity, line_total)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		item.SaleID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity, item.LineTotal).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sales: insert sale item: %w", err)
	}
	return id, nil
}

const saleColumns = `id, tenant_id, reference, occurred_at, total_amount, notes, created_at`

// GetSale returns a sale with its items.
func (r *Repository) GetSale(ctx context.Context, tenantID, id int64) (*Sale, error) {
	var s Sale
	err := r.pool.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 AND tenant_id = $2`, id, tenantID).
		Scan(&s.ID, &s.TenantID, &s.Reference, &s.OccurredAt, &s.TotalAmount, &s.Notes, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sales: get: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, sale_id, product_id, product_name, unit_price, quantity, line_total
		 FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("sales: get items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("sales: scan item: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales: get items: %w", err)
	}
	return &s, nil
}

// ListSales returns a page of sales, newest first, without items.
func (r *Repository) ListSales(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	where := []string{"tenant_id = $1"}
	args := []any{req.TenantID}
	if req.DateFrom != nil {
		args = append(args, *req.DateFrom)
		where = append(where, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if req.DateTo != nil {
		args = append(args, *req.DateTo)
		where = append(where, fmt.Sprintf("occurred_at < $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM sales WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sales: count: %w", err)
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		saleColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sales: list: %w", err)
	}
	defer rows.Close()

	var list []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Reference, &s.OccurredAt, &s.TotalAmount, &s.Notes, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("sales: scan: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sales: list: %w", err)
	}
	return list, total, nil
}
