package analytics

import (
	"fmt"
	"time"
)

// All bucketing happens at day granularity in UTC. Pinning one reference
// zone keeps the period count stable no matter which timezone the server
// or the requesting browser sits in.
var referenceZone = time.UTC

// WindowStart returns the first day of an N-day window ending today.
func WindowStart(today time.Time, windowDays int) time.Time {
	return truncateDay(today).AddDate(0, 0, -windowDays+1)
}

// GeneratePeriods produces the ordered, gapless bucket sequence covering
// [start, today] at the given resolution. The final bucket always contains
// today and may be partial; empty periods are still emitted so a
// zero-revenue stretch shows as zeroes, not a hole in the chart.
func GeneratePeriods(start, today time.Time, res Resolution) ([]TimePeriod, error) {
	start = truncateDay(start)
	today = truncateDay(today)
	if today.Before(start) {
		return nil, fmt.Errorf("%w: start %s is after %s", ErrInvalidWindow, start.Format("2006-01-02"), today.Format("2006-01-02"))
	}

	periods := make([]TimePeriod, 0, estimatePeriodCount(start, today, res))
	cursor := alignToBucket(start, res)
	for !cursor.After(today) {
		next := advance(cursor, res)
		periods = append(periods, TimePeriod{
			Start: cursor,
			End:   next,
			Label: periodLabel(cursor, res),
		})
		cursor = next
	}
	return periods, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.In(referenceZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, referenceZone)
}

// alignToBucket snaps the window start to its calendar bucket boundary.
// Weekly buckets are anchored on the window start day itself rather than a
// fixed weekday, so every window begins with a full bucket.
func alignToBucket(day time.Time, res Resolution) time.Time {
	switch res {
	case ResolutionMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, referenceZone)
	case ResolutionYearly:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, referenceZone)
	default:
		return day
	}
}

func advance(t time.Time, res Resolution) time.Time {
	switch res {
	case ResolutionDaily:
		return t.AddDate(0, 0, 1)
	case ResolutionWeekly:
		return t.AddDate(0, 0, 7)
	case ResolutionMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

func periodLabel(start time.Time, res Resolution) string {
	switch res {
	case ResolutionMonthly:
		return start.Format("2006-01")
	case ResolutionYearly:
		return start.Format("2006")
	default:
		return start.Format("2006-01-02")
	}
}

func estimatePeriodCount(start, today time.Time, res Resolution) int {
	days := int(today.Sub(start).Hours()/24) + 1
	switch res {
	case ResolutionDaily:
		return days
	case ResolutionWeekly:
		return days/7 + 1
	case ResolutionMonthly:
		return days/28 + 2
	default:
		return days/365 + 2
	}
}
