package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRepo struct {
	sales      []SaleRecord
	salesErr   error
	salesCalls int
	items      []SaleItemRecord
	itemsErr   error
	itemsCalls int
	tenants    []int64
}

func (m *mockRepo) FetchSales(ctx context.Context, tenantID int64, from, to time.Time) ([]SaleRecord, error) {
	m.salesCalls++
	return m.sales, m.salesErr
}

func (m *mockRepo) FetchSaleItems(ctx context.Context, tenantID int64, from, to time.Time) ([]SaleItemRecord, error) {
	m.itemsCalls++
	return m.items, m.itemsErr
}

func (m *mockRepo) ListActiveTenantIDs(ctx context.Context) ([]int64, error) {
	return m.tenants, nil
}

var testToday = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func weekOfSales() []SaleRecord {
	amounts := []float64{100, 150, 120, 200, 180, 220, 250}
	start := WindowStart(testToday, len(amounts))
	sales := make([]SaleRecord, len(amounts))
	for i, amount := range amounts {
		sales[i] = SaleRecord{
			ID:          int64(i + 1),
			TenantID:    1,
			OccurredAt:  start.Add(time.Duration(i)*24*time.Hour + 9*time.Hour),
			TotalAmount: amount,
		}
	}
	return sales
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(repo, NewCache(client, time.Minute))
	svc.now = func() time.Time { return testToday }
	return svc
}

func TestAnalyzeRevenueCaches(t *testing.T) {
	repo := &mockRepo{sales: weekOfSales()}
	svc := newTestService(t, repo)
	ctx := context.Background()

	analysis, err := svc.AnalyzeRevenue(ctx, 1, 7, DefaultForecastHorizon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Total != 1220 {
		t.Fatalf("expected total 1220 got %v", analysis.Total)
	}
	if analysis.Resolution != ResolutionDaily {
		t.Fatalf("expected daily resolution got %s", analysis.Resolution)
	}
	if len(analysis.Data) != 7 {
		t.Fatalf("expected 7 buckets got %d", len(analysis.Data))
	}
	if analysis.Trend != TrendIncreasing {
		t.Fatalf("expected increasing trend got %s", analysis.Trend)
	}
	if len(analysis.Forecast) != DefaultForecastHorizon {
		t.Fatalf("expected %d forecast periods got %d", DefaultForecastHorizon, len(analysis.Forecast))
	}
	if repo.salesCalls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.salesCalls)
	}

	// Second call should hit cache.
	if _, err = svc.AnalyzeRevenue(ctx, 1, 7, DefaultForecastHorizon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.salesCalls != 1 {
		t.Fatalf("expected cached result, repo called %d times", repo.salesCalls)
	}

	// Bumping the cache should trigger reload.
	if err := svc.cache.Bump(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if _, err = svc.AnalyzeRevenue(ctx, 1, 7, DefaultForecastHorizon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.salesCalls != 2 {
		t.Fatalf("expected repo to refresh, calls %d", repo.salesCalls)
	}
}

func TestAnalyzeRevenueForecastIsOptIn(t *testing.T) {
	repo := &mockRepo{sales: weekOfSales()}
	svc := newTestService(t, repo)
	ctx := context.Background()

	analysis, err := svc.AnalyzeRevenue(ctx, 1, 7, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.Forecast) != 0 {
		t.Fatalf("forecast was not requested but %d forecast points were returned", len(analysis.Forecast))
	}
	if len(analysis.Data) != 7 || analysis.Total != 1220 {
		t.Fatalf("series must be unaffected by the forecast flag, got %d points total %v", len(analysis.Data), analysis.Total)
	}

	analysis, err = svc.AnalyzeRevenue(ctx, 1, 7, DefaultForecastHorizon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.Forecast) != DefaultForecastHorizon {
		t.Fatalf("expected %d forecast periods got %d", DefaultForecastHorizon, len(analysis.Forecast))
	}
}

func TestAnalyzeRevenueWithoutCacheRecomputes(t *testing.T) {
	repo := &mockRepo{sales: weekOfSales()}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return testToday }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.AnalyzeRevenue(ctx, 1, 7, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.salesCalls != 2 {
		t.Fatalf("nil cache must recompute per request, got %d calls", repo.salesCalls)
	}
}

func TestAnalyzeRevenueInvalidWindow(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	for _, windowDays := range []int{0, -7, maxWindowDays + 1} {
		_, err := svc.AnalyzeRevenue(context.Background(), 1, windowDays, 0)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("window %d: expected ErrInvalidWindow got %v", windowDays, err)
		}
	}
	if repo.salesCalls != 0 {
		t.Fatalf("invalid windows must not reach the repository")
	}
}

func TestAnalyzeRevenueNoSales(t *testing.T) {
	svc := newTestService(t, &mockRepo{})

	_, err := svc.AnalyzeRevenue(context.Background(), 1, 30, 0)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData got %v", err)
	}
}

func TestAnalyzeRevenuePropagatesRepoError(t *testing.T) {
	repoErr := errors.New("boom")
	svc := newTestService(t, &mockRepo{salesErr: repoErr})

	_, err := svc.AnalyzeRevenue(context.Background(), 1, 30, 0)
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error got %v", err)
	}
}

func TestPriceRecommendationsFiltersByConfidence(t *testing.T) {
	items := make([]SaleItemRecord, 0, 13)
	// Product 1 has ten observations over two price points, product 2 three.
	start := WindowStart(testToday, 30)
	for i := 0; i < 10; i++ {
		price := 10.0
		qty := 100.0
		if i >= 5 {
			price, qty = 12.0, 70.0
		}
		items = append(items, SaleItemRecord{
			ID: int64(i + 1), SaleID: int64(i + 1), ProductID: 1, ProductName: "Widget",
			UnitPrice: price, Quantity: qty, SoldAt: start.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
	for i := 0; i < 3; i++ {
		items = append(items, SaleItemRecord{
			ID: int64(20 + i), SaleID: int64(20 + i), ProductID: 2, ProductName: "Gizmo",
			UnitPrice: 4.0, Quantity: 2.0, SoldAt: start.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
	repo := &mockRepo{sales: weekOfSales(), items: items}
	svc := newTestService(t, repo)

	set, err := svc.PriceRecommendations(context.Background(), 1, 30, ConfidenceMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation after filtering got %d", len(set.Recommendations))
	}
	rec := set.Recommendations[0]
	if rec.ProductID != 1 || rec.Confidence != ConfidenceHigh {
		t.Fatalf("unexpected recommendation %+v", rec)
	}
	if len(set.RevenueProjections) != DefaultForecastHorizon {
		t.Fatalf("expected %d projections got %d", DefaultForecastHorizon, len(set.RevenueProjections))
	}
}

func TestPriceRecommendationsNoHistory(t *testing.T) {
	svc := newTestService(t, &mockRepo{sales: weekOfSales()})

	_, err := svc.PriceRecommendations(context.Background(), 1, 30, "")
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData got %v", err)
	}
}

func TestPriceRecommendationsWithoutSalesSkipsProjection(t *testing.T) {
	items := itemRows(1, "Widget", [2]float64{5, 10}, [2]float64{5, 12})
	svc := newTestService(t, &mockRepo{items: items})

	set, err := svc.PriceRecommendations(context.Background(), 1, 30, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Recommendations) != 1 {
		t.Fatalf("expected recommendations despite missing sale totals")
	}
	if len(set.RevenueProjections) != 0 {
		t.Fatalf("no sale totals means no projection, got %d", len(set.RevenueProjections))
	}
}

func TestWarmSkipsTenantsWithoutSales(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	if err := svc.Warm(context.Background(), 1, []int{30, 90, 365}); err != nil {
		t.Fatalf("warm must skip empty tenants, got %v", err)
	}
	if repo.salesCalls != 3 {
		t.Fatalf("expected 3 warm attempts got %d", repo.salesCalls)
	}
}
