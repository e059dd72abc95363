package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxWindowDays caps requested windows at ten years. Anything longer is a
// client mistake, not a real reporting need.
const maxWindowDays = 3650

// Service coordinates history loading, the computation pipeline and the
// cache layer. Every result is derived fresh from sale history unless a
// cache is configured.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

// NewService wires a Repository with an optional Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// AnalyzeRevenue builds the full revenue-over-time payload for a tenant
// window: bucketed series, descriptive statistics, growth, trend and
// seasonality. Forecasting is opt-in: horizon is the number of projected
// periods to append, and anything below 1 omits the forecast entirely.
func (s *Service) AnalyzeRevenue(ctx context.Context, tenantID int64, windowDays, horizon int) (RevenueAnalysis, error) {
	if err := validateWindow(windowDays); err != nil {
		return RevenueAnalysis{}, err
	}
	if horizon < 0 {
		horizon = 0
	}

	key, err := s.cache.BuildKey(ctx, keyRevenue(tenantID, windowDays, horizon))
	if err != nil {
		return RevenueAnalysis{}, err
	}

	var analysis RevenueAnalysis
	err = s.cache.FetchJSON(ctx, key, &analysis, func(ctx context.Context) (interface{}, error) {
		return s.computeRevenue(ctx, tenantID, windowDays, horizon)
	})
	return analysis, err
}

func (s *Service) computeRevenue(ctx context.Context, tenantID int64, windowDays, horizon int) (RevenueAnalysis, error) {
	today := s.now().In(referenceZone)
	res := ResolutionForWindow(windowDays)
	start := WindowStart(today, windowDays)

	periods, err := GeneratePeriods(start, today, res)
	if err != nil {
		return RevenueAnalysis{}, err
	}

	sales, err := s.repo.FetchSales(ctx, tenantID, start, truncateDay(today).AddDate(0, 0, 1))
	if err != nil {
		return RevenueAnalysis{}, err
	}

	points, err := AggregateRevenue(sales, periods)
	if err != nil {
		return RevenueAnalysis{}, fmt.Errorf("revenue analysis for tenant %d: %w", tenantID, err)
	}

	stats := ComputeStats(points)
	trend := ClassifyTrend(points)

	var forecast []RevenueSeriesPoint
	if horizon > 0 {
		forecast = Forecast(points, res, horizon, trend)
	}

	return RevenueAnalysis{
		Data:        points,
		Total:       stats.Sum,
		Average:     stats.Average,
		Median:      stats.Median,
		Min:         stats.Min,
		Max:         stats.Max,
		Percentiles: stats.Percentiles,
		Growth:      stats.Growth,
		Resolution:  res,
		Trend:       trend,
		Seasonality: DetectSeasonality(points, res),
		Forecast:    forecast,
	}, nil
}

// PriceRecommendations derives per-product pricing suggestions plus the
// revenue projection of applying them. minConfidence filters the returned
// recommendations; an empty value keeps them all.
func (s *Service) PriceRecommendations(ctx context.Context, tenantID int64, windowDays int, minConfidence Confidence) (RecommendationSet, error) {
	if err := validateWindow(windowDays); err != nil {
		return RecommendationSet{}, err
	}

	key, err := s.cache.BuildKey(ctx, keyRecommendations(tenantID, windowDays, minConfidence))
	if err != nil {
		return RecommendationSet{}, err
	}

	var set RecommendationSet
	err = s.cache.FetchJSON(ctx, key, &set, func(ctx context.Context) (interface{}, error) {
		return s.computeRecommendations(ctx, tenantID, windowDays, minConfidence)
	})
	return set, err
}

func (s *Service) computeRecommendations(ctx context.Context, tenantID int64, windowDays int, minConfidence Confidence) (RecommendationSet, error) {
	today := s.now().In(referenceZone)
	start := WindowStart(today, windowDays)
	end := truncateDay(today).AddDate(0, 0, 1)

	var (
		sales []SaleRecord
		items []SaleItemRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.repo.FetchSales(gctx, tenantID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.FetchSaleItems(gctx, tenantID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return RecommendationSet{}, err
	}

	recs, err := RecommendPrices(items)
	if err != nil {
		return RecommendationSet{}, fmt.Errorf("price recommendations for tenant %d: %w", tenantID, err)
	}
	if minConfidence.Rank() > 0 {
		filtered := recs[:0]
		for _, rec := range recs {
			if rec.Confidence.Rank() >= minConfidence.Rank() {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}

	set := RecommendationSet{Recommendations: recs}

	// A tenant can have item history but no usable sale totals. The
	// recommendations still stand; only the projection is skipped.
	forecast, err := s.forecastForWindow(sales, today, windowDays)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			return set, nil
		}
		return RecommendationSet{}, err
	}
	set.RevenueProjections = ProjectRevenue(forecast, items, recs)
	return set, nil
}

func (s *Service) forecastForWindow(sales []SaleRecord, today time.Time, windowDays int) ([]RevenueSeriesPoint, error) {
	res := ResolutionForWindow(windowDays)
	periods, err := GeneratePeriods(WindowStart(today, windowDays), today, res)
	if err != nil {
		return nil, err
	}
	points, err := AggregateRevenue(sales, periods)
	if err != nil {
		return nil, err
	}
	return Forecast(points, res, DefaultForecastHorizon, ClassifyTrend(points)), nil
}

// ActiveTenants lists tenants worth precomputing, for the warmup job.
func (s *Service) ActiveTenants(ctx context.Context) ([]int64, error) {
	return s.repo.ListActiveTenantIDs(ctx)
}

// Warm precomputes the revenue analysis for the given windows so first
// morning requests hit the cache. Tenants without sales yet are skipped,
// not failed.
func (s *Service) Warm(ctx context.Context, tenantID int64, windows []int) error {
	for _, w := range windows {
		if _, err := s.AnalyzeRevenue(ctx, tenantID, w, DefaultForecastHorizon); err != nil {
			if errors.Is(err, ErrInsufficientData) {
				continue
			}
			return err
		}
	}
	return nil
}

func validateWindow(windowDays int) error {
	if windowDays < 1 || windowDays > maxWindowDays {
		return fmt.Errorf("%w: window_days must be between 1 and %d, got %d", ErrInvalidWindow, maxWindowDays, windowDays)
	}
	return nil
}
