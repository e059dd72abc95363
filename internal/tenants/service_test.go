package tenants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	created   *Tenant
	createErr error
	updates   map[string]any
	updated   *Tenant
}

func (m *mockStore) Get(ctx context.Context, id int64) (*Tenant, error) {
	return m.updated, nil
}

func (m *mockStore) Create(ctx context.Context, t Tenant) (*Tenant, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	t.ID = 11
	m.created = &t
	return &t, nil
}

func (m *mockStore) Update(ctx context.Context, id int64, updates map[string]any) (*Tenant, error) {
	m.updates = updates
	return m.updated, nil
}

func TestCreateTenantMintsPublicID(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	tenant, err := svc.Create(context.Background(), CreateTenantRequest{
		Name:     "Corner Store",
		Email:    "owner@corner.example",
		Currency: "USD",
		Timezone: "America/New_York",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tenant.PublicID)
	assert.True(t, tenant.IsActive)
	assert.Equal(t, int64(11), tenant.ID)
}

func TestCreateTenantDuplicateEmail(t *testing.T) {
	store := &mockStore{createErr: ErrAlreadyExists}
	svc := NewService(store)

	_, err := svc.Create(context.Background(), CreateTenantRequest{
		Name: "Corner Store", Email: "owner@corner.example", Currency: "USD", Timezone: "UTC",
	})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateTenantBuildsPartialUpdate(t *testing.T) {
	store := &mockStore{updated: &Tenant{ID: 11}}
	svc := NewService(store)

	provider := "stripe"
	account := "acct_123"
	_, err := svc.Update(context.Background(), 11, UpdateTenantRequest{
		PaymentProvider:  &provider,
		PaymentAccountID: &account,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"payment_provider":   "stripe",
		"payment_account_id": "acct_123",
	}, store.updates)
}
