package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tallystack/tallystack/internal/analytics"
)

// Amounts are grouped with thousands separators so the export opens
// readably in a spreadsheet.
var printer = message.NewPrinter(language.English)

// WriteSummaryCSV serialises the headline metrics of a revenue analysis.
func WriteSummaryCSV(w io.Writer, analysis analytics.RevenueAnalysis, windowDays int) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Window Days", strconv.Itoa(windowDays)},
		{"Resolution", string(analysis.Resolution)},
		{"Total Revenue", formatFloat(analysis.Total)},
		{"Average", formatFloat(analysis.Average)},
		{"Median", formatFloat(analysis.Median)},
		{"Min", formatFloat(analysis.Min)},
		{"Max", formatFloat(analysis.Max)},
		{"Overall Growth %", formatFloat(analysis.Growth.Overall)},
		{"Trend", string(analysis.Trend)},
	}
	if analysis.Seasonality.Detected {
		records = append(records, []string{"Seasonality", analysis.Seasonality.Pattern})
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSeriesCSV emits the bucketed revenue series as CSV.
func WriteSeriesCSV(w io.Writer, points []analytics.RevenueSeriesPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Revenue"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{point.Period.Label, formatFloat(point.Value)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteForecastCSV emits projected periods as CSV.
func WriteForecastCSV(w io.Writer, points []analytics.RevenueSeriesPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Forecast Period", "Projected Revenue"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{point.Period.Label, formatFloat(point.Value)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecommendationsCSV prints price recommendations to CSV.
func WriteRecommendationsCSV(w io.Writer, set analytics.RecommendationSet) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Product", "Current Price", "Suggested Price", "Confidence", "Expected Sales Change %", "Expected Revenue Change %", "Data Points"}); err != nil {
		return err
	}
	for _, rec := range set.Recommendations {
		if err := writer.Write([]string{
			rec.ProductName,
			formatFloat(rec.CurrentPrice),
			formatFloat(rec.SuggestedPrice),
			string(rec.Confidence),
			formatFloat(rec.ExpectedSalesChangePct),
			formatFloat(rec.ExpectedRevenueChangePct),
			strconv.Itoa(rec.HistoryDataPoints),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return printer.Sprintf("%.2f", v)
}
