package analytics

import (
	"math"
	"testing"
)

func mkSeries(values ...float64) []RevenueSeriesPoint {
	points := make([]RevenueSeriesPoint, len(values))
	for i, v := range values {
		points[i].Value = v
	}
	return points
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeStatsUniformSeries(t *testing.T) {
	stats := ComputeStats(mkSeries(10, 10, 10))

	if stats.Sum != 30 || stats.Average != 10 || stats.Median != 10 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Min != 10 || stats.Max != 10 {
		t.Fatalf("unexpected min/max %+v", stats)
	}
	for _, p := range []float64{stats.Percentiles.P25, stats.Percentiles.P50, stats.Percentiles.P75, stats.Percentiles.P90, stats.Percentiles.P95, stats.Percentiles.P99} {
		if p != 10 {
			t.Fatalf("all percentiles of a uniform series must be 10, got %+v", stats.Percentiles)
		}
	}
	if stats.Growth.Overall != 0 {
		t.Fatalf("uniform series must report zero growth, got %v", stats.Growth.Overall)
	}
}

func TestComputeStatsWeekOfSales(t *testing.T) {
	stats := ComputeStats(mkSeries(100, 150, 120, 200, 180, 220, 250))

	if stats.Sum != 1220 {
		t.Fatalf("expected sum 1220 got %v", stats.Sum)
	}
	if stats.Median != 180 {
		t.Fatalf("expected median 180 got %v", stats.Median)
	}
	if stats.Min != 100 || stats.Max != 250 {
		t.Fatalf("unexpected extremes %v/%v", stats.Min, stats.Max)
	}
	if !almostEqual(stats.Growth.Overall, 150) {
		t.Fatalf("expected 150%% overall growth got %v", stats.Growth.Overall)
	}
	if len(stats.Growth.PerPeriod) != 6 || !almostEqual(stats.Growth.PerPeriod[0], 50) {
		t.Fatalf("unexpected per-period growth %v", stats.Growth.PerPeriod)
	}
}

func TestMedianEvenCount(t *testing.T) {
	if got := median([]float64{10, 20, 30, 40}); got != 25 {
		t.Fatalf("expected 25 got %v", got)
	}
}

func TestPercentileInterpolates(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	if got := percentile(sorted, 50); got != 30 {
		t.Fatalf("P50 expected 30 got %v", got)
	}
	if got := percentile(sorted, 25); got != 20 {
		t.Fatalf("P25 expected 20 got %v", got)
	}
	if got := percentile(sorted, 90); !almostEqual(got, 46) {
		t.Fatalf("P90 expected 46 got %v", got)
	}
}

func TestComputeGrowthGuards(t *testing.T) {
	if g := ComputeGrowth([]float64{42}); g.Overall != 0 || len(g.PerPeriod) != 0 {
		t.Fatalf("single point must yield zero growth, got %+v", g)
	}
	if g := ComputeGrowth([]float64{0, 100}); g.Overall != 0 {
		t.Fatalf("zero baseline must yield zero growth, got %v", g.Overall)
	}
}
