package analytics

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCoerceAmountMixedRepresentations(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"100", 100},
		{nil, 0},
		{int64(200), 200},
		{180, 180},
		{"invalid", 0},
		{250.0, 250},
		{float32(1.5), 1.5},
		{[]byte("42.25"), 42.25},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{struct{}{}, 0},
	}
	for _, tc := range cases {
		if got := CoerceAmount(tc.in); got != tc.want {
			t.Fatalf("CoerceAmount(%v): expected %v got %v", tc.in, tc.want, got)
		}
	}
}

func TestAggregateRevenueSkipsCorruptRowsAndConservesTotal(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	start := WindowStart(today, 7)
	periods, err := GeneratePeriods(start, today, ResolutionDaily)
	if err != nil {
		t.Fatalf("periods: %v", err)
	}

	amounts := []any{"100", nil, int64(200), 180, "invalid", 250.0}
	sales := make([]SaleRecord, len(amounts))
	for i, amount := range amounts {
		sales[i] = SaleRecord{
			ID:          int64(i + 1),
			TenantID:    1,
			OccurredAt:  start.Add(time.Duration(i) * 24 * time.Hour).Add(6 * time.Hour),
			TotalAmount: amount,
		}
	}

	points, err := AggregateRevenue(sales, periods)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(points) != len(periods) {
		t.Fatalf("expected %d points got %d", len(periods), len(points))
	}

	var total float64
	for _, p := range points {
		total += p.Value
	}
	if total != 730 {
		t.Fatalf("expected conserved total 730 got %v", total)
	}
}

func TestAggregateRevenueEmitsEmptyPeriods(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	start := WindowStart(today, 5)
	periods, _ := GeneratePeriods(start, today, ResolutionDaily)

	sales := []SaleRecord{{ID: 1, OccurredAt: start.Add(2 * time.Hour), TotalAmount: 99.0}}
	points, err := AggregateRevenue(sales, periods)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if points[0].Value != 99 {
		t.Fatalf("expected 99 in first bucket got %v", points[0].Value)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Value != 0 {
			t.Fatalf("expected zero bucket at %d got %v", i, points[i].Value)
		}
	}
}

func TestAggregateRevenueNoSales(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	periods, _ := GeneratePeriods(WindowStart(today, 7), today, ResolutionDaily)

	_, err := AggregateRevenue(nil, periods)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData got %v", err)
	}
}
