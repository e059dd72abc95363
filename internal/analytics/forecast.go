package analytics

// DefaultForecastHorizon is the number of future periods projected when the
// caller does not ask for a specific horizon.
const DefaultForecastHorizon = 12

// Forecast extrapolates the historical series by exactly horizon periods,
// contiguous with the last historical bucket at the same resolution. The
// projection method follows the classified trend: growing and declining
// series extend the least-squares line through the history, flat series
// repeat the recent average. Values are clamped at zero so a steep decline
// never projects negative revenue.
func Forecast(points []RevenueSeriesPoint, res Resolution, horizon int, trend TrendLabel) []RevenueSeriesPoint {
	if horizon <= 0 {
		horizon = DefaultForecastHorizon
	}
	if len(points) == 0 {
		return nil
	}

	intercept, slope := regressionLine(points)
	if trend == TrendFlat {
		slope = 0
		intercept = recentAverage(points)
	}

	out := make([]RevenueSeriesPoint, 0, horizon)
	cursor := points[len(points)-1].Period.End
	for i := 1; i <= horizon; i++ {
		next := advance(cursor, res)
		value := intercept + slope*float64(len(points)-1+i)
		if value < 0 {
			value = 0
		}
		out = append(out, RevenueSeriesPoint{
			Period: TimePeriod{Start: cursor, End: next, Label: periodLabel(cursor, res)},
			Value:  value,
		})
		cursor = next
	}
	return out
}

// regressionLine fits an ordinary least-squares line through the series
// values indexed 0..n-1, returning intercept and slope.
func regressionLine(points []RevenueSeriesPoint) (float64, float64) {
	n := float64(len(points))
	if len(points) == 1 {
		return points[0].Value, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / n, 0
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return intercept, slope
}

// recentAverage is the mean over the trailing third of the series, matching
// the smoothing window the trend classifier uses.
func recentAverage(points []RevenueSeriesPoint) float64 {
	window := (len(points) + 2) / 3
	return meanOf(points[len(points)-window:])
}
