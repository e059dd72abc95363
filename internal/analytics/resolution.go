package analytics

// Resolution is the aggregation granularity of a revenue series.
type Resolution string

const (
	ResolutionDaily   Resolution = "daily"
	ResolutionWeekly  Resolution = "weekly"
	ResolutionMonthly Resolution = "monthly"
	ResolutionYearly  Resolution = "yearly"
)

// Window cutoffs are part of the API contract: dashboards rely on a 30-day
// window rendering daily and a 3-year window rendering yearly.
const (
	maxDailyWindowDays   = 31
	maxWeeklyWindowDays  = 180
	maxMonthlyWindowDays = 730
)

// ResolutionForWindow picks the granularity for a day-count window.
// The mapping is total: every positive window resolves to exactly one value,
// and granularity only coarsens as the window grows.
func ResolutionForWindow(windowDays int) Resolution {
	switch {
	case windowDays <= maxDailyWindowDays:
		return ResolutionDaily
	case windowDays <= maxWeeklyWindowDays:
		return ResolutionWeekly
	case windowDays <= maxMonthlyWindowDays:
		return ResolutionMonthly
	default:
		return ResolutionYearly
	}
}
