package analytics

import (
	"math"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// CoerceAmount converts a raw storage value to a finite float64. Legacy
// rows hold amounts as strings, nulls, or integer cents next to proper
// numerics, and one corrupt row must never abort a whole report, so
// anything unusable becomes 0 instead of an error.
func CoerceAmount(v any) float64 {
	f := rawToFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func rawToFloat(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return f
	case []byte:
		f, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return 0
		}
		return f
	case pgtype.Numeric:
		return numericToFloat(val)
	case *pgtype.Numeric:
		if val == nil {
			return 0
		}
		return numericToFloat(*val)
	default:
		return 0
	}
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0
	}
	return f.Float64
}

// AggregateRevenue buckets sale totals into the generated periods, one
// point per period in chronological order. Sales outside every period are
// ignored; the sum of the series equals the sum of the contributing sales.
// An empty sale set returns ErrInsufficientData so callers can distinguish
// "no data yet" from a legitimately flat series.
func AggregateRevenue(sales []SaleRecord, periods []TimePeriod) ([]RevenueSeriesPoint, error) {
	if len(sales) == 0 {
		return nil, ErrInsufficientData
	}

	points := make([]RevenueSeriesPoint, len(periods))
	for i, p := range periods {
		points[i] = RevenueSeriesPoint{Period: p}
	}
	for _, sale := range sales {
		ts := sale.OccurredAt.In(referenceZone)
		for i := range points {
			if points[i].Period.Contains(ts) {
				points[i].Value += CoerceAmount(sale.TotalAmount)
				break
			}
		}
	}
	return points, nil
}
