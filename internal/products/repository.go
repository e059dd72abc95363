package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrAlreadyExists = errors.New("product already exists")
)

// Repository provides PostgreSQL backed persistence for the product catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, tenant_id, sku, name, description, price, cost, stock_quantity, is_active, deleted_at, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost,
		&p.StockQuantity, &p.IsActive, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Get returns a product by id, excluding soft-deleted rows.
func (r *Repository) Get(ctx context.Context, tenantID, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("products: get: %w", err)
	}
	return &p, nil
}

// List returns a filtered page of the tenant's catalog plus the total count.
func (r *Repository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	where := []string{"tenant_id = $1", "deleted_at IS NULL"}
	args := []any{req.TenantID}

	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if req.Search != nil && strings.TrimSpace(*req.Search) != "" {
		args = append(args, "%"+strings.TrimSpace(*req.Search)+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
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
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		productColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("products: scan: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	return list, total, nil
}

// Create inserts a product. SKU is unique per tenant.
func (r *Repository) Create(ctx context.Context, p Product) (*Product, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (tenant_id, sku, name, description, price, cost, stock_quantity, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+productColumns,
		p.TenantID, p.SKU, p.Name, p.Description, p.Price, p.Cost, p.StockQuantity, p.IsActive)
	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: sku %s", ErrAlreadyExists, p.SKU)
		}
		return nil, fmt.Errorf("products: create: %w", err)
	}
	return &created, nil
}

// Update applies a partial column update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, tenantID, id int64, updates map[string]any) (*Product, error) {
	if len(updates) == 0 {
		return r.Get(ctx, tenantID, id)
	}

	set := make([]string, 0, len(updates)+1)
	args := []any{id, tenantID}
	for col, val := range updates {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL RETURNING %s`,
		strings.Join(set, ", "), productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("products: update: %w", err)
	}
	return &p, nil
}

// Delete soft-deletes a product so historical sale items keep resolving.
func (r *Repository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET deleted_at = now(), is_active = false, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
