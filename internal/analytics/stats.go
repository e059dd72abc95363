package analytics

import (
	"math"
	"sort"
)

// ComputeStats derives descriptive statistics from a revenue series.
// Empty input yields zeroed stats rather than an error; the aggregator
// already guards the truly-no-data case upstream.
func ComputeStats(points []RevenueSeriesPoint) SeriesStats {
	if len(points) == 0 {
		return SeriesStats{}
	}

	values := make([]float64, len(points))
	var sum float64
	for i, p := range points {
		values[i] = p.Value
		sum += p.Value
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return SeriesStats{
		Sum:     sum,
		Average: sum / float64(len(values)),
		Median:  median(sorted),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Percentiles: Percentiles{
			P25: percentile(sorted, 25),
			P50: percentile(sorted, 50),
			P75: percentile(sorted, 75),
			P90: percentile(sorted, 90),
			P95: percentile(sorted, 95),
			P99: percentile(sorted, 99),
		},
		Growth: ComputeGrowth(values),
	}
}

// median expects values sorted ascending. Even counts average the two
// middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile expects values sorted ascending and interpolates linearly
// between ranks.
func percentile(sorted []float64, pct float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := pct / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// ComputeGrowth returns the overall percentage change of the last value
// against the first, plus the period-over-period changes. Fewer than two
// points, or a zero baseline, yield 0 rather than NaN/Inf.
func ComputeGrowth(values []float64) GrowthResult {
	result := GrowthResult{PerPeriod: make([]float64, 0, len(values))}
	if len(values) < 2 {
		return result
	}
	result.Overall = pctChange(values[0], values[len(values)-1])
	for i := 1; i < len(values); i++ {
		result.PerPeriod = append(result.PerPeriod, pctChange(values[i-1], values[i]))
	}
	return result
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
