package analytics

import (
	"testing"
	"time"
)

func dailySeries(t *testing.T, today time.Time, values []float64) []RevenueSeriesPoint {
	t.Helper()
	periods, err := GeneratePeriods(WindowStart(today, len(values)), today, ResolutionDaily)
	if err != nil {
		t.Fatalf("periods: %v", err)
	}
	if len(periods) != len(values) {
		t.Fatalf("expected %d periods got %d", len(values), len(periods))
	}
	points := make([]RevenueSeriesPoint, len(values))
	for i := range values {
		points[i] = RevenueSeriesPoint{Period: periods[i], Value: values[i]}
	}
	return points
}

func TestForecastHorizonAndContiguity(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	points := dailySeries(t, today, []float64{100, 150, 120, 200, 180, 220, 250})

	forecast := Forecast(points, ResolutionDaily, 5, TrendIncreasing)
	if len(forecast) != 5 {
		t.Fatalf("expected 5 forecast periods got %d", len(forecast))
	}
	if !forecast[0].Period.Start.Equal(points[len(points)-1].Period.End) {
		t.Fatalf("forecast must continue from the last historical bucket")
	}
	for i := 1; i < len(forecast); i++ {
		if !forecast[i].Period.Start.Equal(forecast[i-1].Period.End) {
			t.Fatalf("gap between forecast period %d and %d", i-1, i)
		}
	}
	// The fitted line rises, so each projected value must top the last.
	for i := 1; i < len(forecast); i++ {
		if forecast[i].Value <= forecast[i-1].Value {
			t.Fatalf("increasing trend must project rising values, got %v then %v", forecast[i-1].Value, forecast[i].Value)
		}
	}
}

func TestForecastDefaultsHorizon(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	points := dailySeries(t, today, []float64{100, 110, 120})

	forecast := Forecast(points, ResolutionDaily, 0, TrendIncreasing)
	if len(forecast) != DefaultForecastHorizon {
		t.Fatalf("expected default horizon %d got %d", DefaultForecastHorizon, len(forecast))
	}
}

func TestForecastClampsDeclineAtZero(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	points := dailySeries(t, today, []float64{50, 40, 30, 20, 10})

	forecast := Forecast(points, ResolutionDaily, 6, TrendDecreasing)
	for _, p := range forecast {
		if p.Value < 0 {
			t.Fatalf("forecast must never go negative, got %v at %s", p.Value, p.Period.Label)
		}
	}
	if last := forecast[len(forecast)-1]; last.Value != 0 {
		t.Fatalf("steep decline should bottom out at zero, got %v", last.Value)
	}
}

func TestForecastFlatRepeatsRecentAverage(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	points := dailySeries(t, today, []float64{100, 100, 100, 100, 100, 100})

	forecast := Forecast(points, ResolutionDaily, 4, TrendFlat)
	for _, p := range forecast {
		if p.Value != 100 {
			t.Fatalf("flat trend must repeat the recent average, got %v", p.Value)
		}
	}
}

func TestForecastEmptyHistory(t *testing.T) {
	if got := Forecast(nil, ResolutionDaily, 5, TrendFlat); got != nil {
		t.Fatalf("empty history must yield no forecast, got %v", got)
	}
}
