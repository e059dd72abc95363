package analytics

import (
	"fmt"
	"math"
)

// trendNoiseThresholdPct is the band, in percent, within which a series is
// still considered flat. Inferred convention, tunable rather than a hard
// contract.
const trendNoiseThresholdPct = 5.0

// Seasonality is only evaluated when the series spans at least two full
// cycles: 12 periods per cycle for monthly series, 4 for weekly.
const (
	monthlyCycleLength = 12
	weeklyCycleLength  = 4

	seasonalityCorrelationThreshold = 0.5
)

// ClassifyTrend labels a series by comparing the smoothed early window
// against the smoothed late window. Each window is the first/last third of
// the series, which absorbs single-period spikes better than comparing the
// raw endpoints.
func ClassifyTrend(points []RevenueSeriesPoint) TrendLabel {
	if len(points) < 2 {
		return TrendFlat
	}

	window := (len(points) + 2) / 3
	early := meanOf(points[:window])
	late := meanOf(points[len(points)-window:])

	if early == 0 {
		if late > 0 {
			return TrendIncreasing
		}
		return TrendFlat
	}

	changePct := (late - early) / early * 100
	switch {
	case changePct > trendNoiseThresholdPct:
		return TrendIncreasing
	case changePct < -trendNoiseThresholdPct:
		return TrendDecreasing
	default:
		return TrendFlat
	}
}

// DetectSeasonality flags a recurring cycle in weekly or monthly series.
// It computes the autocorrelation of the series at the cycle lag and
// reports the strongest offset when the correlation clears the threshold.
// Daily and yearly series never report seasonality.
func DetectSeasonality(points []RevenueSeriesPoint, res Resolution) Seasonality {
	cycle := 0
	switch res {
	case ResolutionMonthly:
		cycle = monthlyCycleLength
	case ResolutionWeekly:
		cycle = weeklyCycleLength
	default:
		return Seasonality{}
	}
	if len(points) < 2*cycle {
		return Seasonality{}
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	corr := autocorrelation(values, cycle)
	if corr < seasonalityCorrelationThreshold {
		return Seasonality{}
	}

	peak := peakOffset(values, cycle)
	return Seasonality{
		Detected: true,
		Pattern:  fmt.Sprintf("recurring peak every %d periods (offset %d, correlation %.2f)", cycle, peak, corr),
	}
}

// autocorrelation at the given lag, normalised by the series variance.
func autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || n <= lag {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var num, denom float64
	for i := 0; i < n; i++ {
		d := values[i] - mean
		denom += d * d
		if i+lag < n {
			num += d * (values[i+lag] - mean)
		}
	}
	if denom == 0 {
		return 0
	}
	return num / denom
}

// peakOffset finds the cycle position with the highest average value.
func peakOffset(values []float64, cycle int) int {
	sums := make([]float64, cycle)
	counts := make([]int, cycle)
	for i, v := range values {
		sums[i%cycle] += v
		counts[i%cycle]++
	}
	best, bestAvg := 0, math.Inf(-1)
	for i := 0; i < cycle; i++ {
		if counts[i] == 0 {
			continue
		}
		avg := sums[i] / float64(counts[i])
		if avg > bestAvg {
			best, bestAvg = i, avg
		}
	}
	return best
}

func meanOf(points []RevenueSeriesPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}
