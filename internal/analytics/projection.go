package analytics

// ProjectRevenue pairs each forecast period with the revenue expected if
// every price recommendation were applied. The uplift is the
// revenue-share-weighted mean of the per-product expected revenue changes,
// so a 10% gain on a product carrying half the revenue moves the projection
// by 5%. Products without history contribute nothing to the weighting.
func ProjectRevenue(forecast []RevenueSeriesPoint, items []SaleItemRecord, recs []PriceRecommendation) []RevenueProjectionPoint {
	if len(forecast) == 0 {
		return nil
	}

	uplift := weightedUplift(items, recs)

	out := make([]RevenueProjectionPoint, 0, len(forecast))
	for _, p := range forecast {
		optimized := p.Value * (1 + uplift/100)
		if optimized < 0 {
			optimized = 0
		}
		out = append(out, RevenueProjectionPoint{
			Date:             p.Period.Label,
			CurrentRevenue:   round2(p.Value),
			OptimizedRevenue: round2(optimized),
		})
	}
	return out
}

// weightedUplift returns the expected overall revenue change, in percent,
// weighting each product's expected change by its share of historical
// item revenue.
func weightedUplift(items []SaleItemRecord, recs []PriceRecommendation) float64 {
	revenueByProduct := make(map[int64]float64)
	var totalRevenue float64
	for _, item := range items {
		price := CoerceAmount(item.UnitPrice)
		qty := CoerceAmount(item.Quantity)
		if price <= 0 || qty <= 0 {
			continue
		}
		revenueByProduct[item.ProductID] += price * qty
		totalRevenue += price * qty
	}
	if totalRevenue == 0 {
		return 0
	}

	var uplift float64
	for _, rec := range recs {
		share := revenueByProduct[rec.ProductID] / totalRevenue
		uplift += share * rec.ExpectedRevenueChangePct
	}
	return uplift
}
