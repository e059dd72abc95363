package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	created    *Product
	createErr  error
	updates    map[string]any
	updated    *Product
	updateErr  error
	deletedID  int64
	deleteErr  error
	listReq    ListProductsRequest
	listResult []Product
	listTotal  int
}

func (m *mockStore) Get(ctx context.Context, tenantID, id int64) (*Product, error) {
	return m.updated, nil
}

func (m *mockStore) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	m.listReq = req
	return m.listResult, m.listTotal, nil
}

func (m *mockStore) Create(ctx context.Context, p Product) (*Product, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	p.ID = 42
	m.created = &p
	return &p, nil
}

func (m *mockStore) Update(ctx context.Context, tenantID, id int64, updates map[string]any) (*Product, error) {
	m.updates = updates
	return m.updated, m.updateErr
}

func (m *mockStore) Delete(ctx context.Context, tenantID, id int64) error {
	m.deletedID = id
	return m.deleteErr
}

func TestCreateProductStartsActive(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	desc := "plain black tee"
	product, err := svc.Create(context.Background(), CreateProductRequest{
		TenantID:      1,
		SKU:           "TEE-001",
		Name:          "T-Shirt",
		Description:   &desc,
		Price:         19.9,
		StockQuantity: 10,
	})
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, int64(42), product.ID)
	assert.True(t, product.IsActive)
	assert.Equal(t, "TEE-001", store.created.SKU)
	assert.Equal(t, 19.9, store.created.Price)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	store := &mockStore{createErr: ErrAlreadyExists}
	svc := NewService(store)

	_, err := svc.Create(context.Background(), CreateProductRequest{TenantID: 1, SKU: "TEE-001", Name: "T-Shirt"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateProductBuildsPartialUpdate(t *testing.T) {
	store := &mockStore{updated: &Product{ID: 7, Name: "Renamed"}}
	svc := NewService(store)

	name := "Renamed"
	price := 25.0
	_, err := svc.Update(context.Background(), 1, 7, UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Renamed", "price": 25.0}, store.updates)
}

func TestUpdateProductNoFieldsIsNoop(t *testing.T) {
	store := &mockStore{updated: &Product{ID: 7}}
	svc := NewService(store)

	_, err := svc.Update(context.Background(), 1, 7, UpdateProductRequest{})
	require.NoError(t, err)
	assert.Empty(t, store.updates)
}

func TestListProductsPassesFilters(t *testing.T) {
	store := &mockStore{listResult: []Product{{ID: 1}}, listTotal: 1}
	svc := NewService(store)

	active := true
	list, total, err := svc.List(context.Background(), ListProductsRequest{TenantID: 3, IsActive: &active, Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, int64(3), store.listReq.TenantID)
	assert.Equal(t, 2, store.listReq.Page)
}
