package analytics

import (
	"errors"
	"testing"
	"time"
)

func TestResolutionForWindowBoundaries(t *testing.T) {
	cases := []struct {
		windowDays int
		want       Resolution
	}{
		{1, ResolutionDaily},
		{30, ResolutionDaily},
		{31, ResolutionDaily},
		{32, ResolutionWeekly},
		{180, ResolutionWeekly},
		{181, ResolutionMonthly},
		{365, ResolutionMonthly},
		{730, ResolutionMonthly},
		{731, ResolutionYearly},
		{1095, ResolutionYearly},
	}
	for _, tc := range cases {
		if got := ResolutionForWindow(tc.windowDays); got != tc.want {
			t.Fatalf("window %d: expected %s got %s", tc.windowDays, tc.want, got)
		}
	}
}

func TestGeneratePeriodsDaily(t *testing.T) {
	today := time.Date(2025, 3, 15, 12, 30, 0, 0, time.UTC)
	start := WindowStart(today, 10)

	periods, err := GeneratePeriods(start, today, ResolutionDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 10 {
		t.Fatalf("expected 10 daily periods got %d", len(periods))
	}
	if periods[0].Start != time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected first period start %v", periods[0].Start)
	}
	if !periods[len(periods)-1].Contains(today) {
		t.Fatalf("last period %v..%v should contain today", periods[len(periods)-1].Start, periods[len(periods)-1].End)
	}
	for i := 1; i < len(periods); i++ {
		if !periods[i].Start.Equal(periods[i-1].End) {
			t.Fatalf("gap between period %d and %d", i-1, i)
		}
	}
}

func TestGeneratePeriodsMonthlyAlignsToCalendar(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	start := WindowStart(today, 365)

	periods, err := GeneratePeriods(start, today, ResolutionMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if periods[0].Start.Day() != 1 {
		t.Fatalf("monthly periods must start on the 1st, got %v", periods[0].Start)
	}
	if len(periods) != 13 {
		t.Fatalf("expected 13 monthly periods got %d", len(periods))
	}
	if periods[0].Label != "2024-03" {
		t.Fatalf("unexpected first label %q", periods[0].Label)
	}
	if last := periods[len(periods)-1]; last.Label != "2025-03" || !last.Contains(today) {
		t.Fatalf("unexpected last period %q", last.Label)
	}
}

func TestGeneratePeriodsWeeklyAnchorsOnWindowStart(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	start := WindowStart(today, 90)

	periods, err := GeneratePeriods(start, today, ResolutionWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !periods[0].Start.Equal(start) {
		t.Fatalf("weekly periods anchor on window start, got %v want %v", periods[0].Start, start)
	}
	for _, p := range periods {
		if p.End.Sub(p.Start) != 7*24*time.Hour {
			t.Fatalf("weekly period %q spans %v", p.Label, p.End.Sub(p.Start))
		}
	}
}

func TestGeneratePeriodsRejectsInvertedWindow(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := GeneratePeriods(today.AddDate(0, 0, 5), today, ResolutionDaily)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow got %v", err)
	}
}
