package analytics

import (
	"time"
)

// ============================================================================
// RAW RECORDS (as fetched from persistence)
// ============================================================================

// SaleRecord is one completed sale as stored at checkout. Sales are
// immutable once written; analytics never mutates them.
type SaleRecord struct {
	ID         int64
	TenantID   int64
	OccurredAt time.Time
	// TotalAmount is kept as the raw storage value. Legacy rows carry
	// strings, nulls, or integer cents, so it is coerced with CoerceAmount
	// during aggregation instead of at scan time.
	TotalAmount any
}

// SaleItemRecord is one line of a sale, carrying the price and quantity
// actually charged plus a snapshot of the product name at checkout time.
// The snapshot may diverge from the current catalog name.
type SaleItemRecord struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	ProductName string
	UnitPrice   any
	Quantity    any
	SoldAt      time.Time
}

// ============================================================================
// SERIES TYPES
// ============================================================================

// TimePeriod is one contiguous aggregation bucket. Start is inclusive,
// End is exclusive.
type TimePeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether t falls inside the period.
func (p TimePeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// RevenueSeriesPoint is one aggregated revenue value per period.
type RevenueSeriesPoint struct {
	Period TimePeriod `json:"period"`
	Value  float64    `json:"value"`
}

// GrowthResult holds overall and per-period growth percentages.
type GrowthResult struct {
	Overall   float64   `json:"overall"`
	PerPeriod []float64 `json:"per_period"`
}

// Percentiles carries the fixed percentile thresholds of a revenue series.
type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// SeriesStats aggregates descriptive statistics over a revenue series.
type SeriesStats struct {
	Sum         float64      `json:"sum"`
	Average     float64      `json:"average"`
	Median      float64      `json:"median"`
	Min         float64      `json:"min"`
	Max         float64      `json:"max"`
	Percentiles Percentiles  `json:"percentiles"`
	Growth      GrowthResult `json:"growth"`
}

// TrendLabel classifies the direction of a revenue series.
type TrendLabel string

const (
	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
	TrendFlat       TrendLabel = "flat"
)

// Seasonality reports whether a recurring cycle was detected in the series.
type Seasonality struct {
	Detected bool   `json:"detected"`
	Pattern  string `json:"pattern,omitempty"`
}

// ============================================================================
// RESULTS
// ============================================================================

// RevenueAnalysis is the full revenue-over-time payload for one tenant
// and window.
type RevenueAnalysis struct {
	Data        []RevenueSeriesPoint `json:"data"`
	Total       float64              `json:"total"`
	Average     float64              `json:"average"`
	Median      float64              `json:"median"`
	Min         float64              `json:"min"`
	Max         float64              `json:"max"`
	Percentiles Percentiles          `json:"percentiles"`
	Growth      GrowthResult         `json:"growth"`
	Resolution  Resolution           `json:"resolution"`
	Trend       TrendLabel           `json:"trend"`
	Seasonality Seasonality          `json:"seasonality"`
	Forecast    []RevenueSeriesPoint `json:"forecast,omitempty"`
}

// Confidence labels how much sale-item history backs a recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceForCount maps an observation count to a confidence label.
// The label depends on sample size only, never on price variance.
func ConfidenceForCount(n int) Confidence {
	switch {
	case n >= 10:
		return ConfidenceHigh
	case n >= 5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Rank orders confidence labels so callers can filter by a minimum.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// PriceRecommendation is the per-product pricing suggestion. It is always
// derived fresh from sale-item history and never persisted.
type PriceRecommendation struct {
	ProductID                int64      `json:"product_id"`
	ProductName              string     `json:"product_name"`
	CurrentPrice             float64    `json:"current_price"`
	SuggestedPrice           float64    `json:"suggested_price"`
	Confidence               Confidence `json:"confidence"`
	ExpectedSalesChangePct   float64    `json:"expected_sales_change_pct"`
	ExpectedRevenueChangePct float64    `json:"expected_revenue_change_pct"`
	HistoryDataPoints        int        `json:"history_data_points"`
}

// RevenueProjectionPoint compares projected revenue at current vs
// recommended prices for one forecast period.
type RevenueProjectionPoint struct {
	Date             string  `json:"date"`
	CurrentRevenue   float64 `json:"current_revenue"`
	OptimizedRevenue float64 `json:"optimized_revenue"`
}

// RecommendationSet is the full price-recommendation payload for a tenant.
type RecommendationSet struct {
	Recommendations    []PriceRecommendation    `json:"recommendations"`
	RevenueProjections []RevenueProjectionPoint `json:"revenue_projections"`
}
