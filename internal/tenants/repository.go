package tenants

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
	ErrNotFound      = errors.New("tenant not found")
	ErrAlreadyExists = errors.New("tenant already exists")
)

// Repository provides PostgreSQL backed persistence for tenants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `id, public_id, name, email, phone, address, currency, timezone, is_active,
	payment_provider, payment_account_id, created_at, updated_at`

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.PublicID, &t.Name, &t.Email, &t.Phone, &t.Address, &t.Currency,
		&t.Timezone, &t.IsActive, &t.PaymentProvider, &t.PaymentAccountID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Get returns a tenant by internal id.
func (r *Repository) Get(ctx context.Context, id int64) (*Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tenants: get: %w", err)
	}
	return &t, nil
}

// Create inserts a tenant. Email is unique across the platform.
func (r *Repository) Create(ctx context.Context, t Tenant) (*Tenant, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tenants (public_id, name, email, phone, address, currency, timezone, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+tenantColumns,
		t.PublicID, t.Name, t.Email, t.Phone, t.Address, t.Currency, t.Timezone, t.IsActive)
	created, err := scanTenant(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email %s", ErrAlreadyExists, t.Email)
		}
		return nil, fmt.Errorf("tenants: create: %w", err)
	}
	return &created, nil
}

// Update applies a partial column update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*Tenant, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	set := make([]string, 0, len(updates)+1)
	args := []any{id}
	for col, val := range updates {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE tenants SET %s WHERE id = $1 RETURNING %s`, strings.Join(set, ", "), tenantColumns)
	t, err := scanTenant(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tenants: update: %w", err)
	}
	return &t, nil
}
