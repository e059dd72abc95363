package analytics

import (
	"math"
	"sort"
)

// Price search is bounded to ±20% of the current price in 1% steps.
// Inferred convention, tunable rather than a hard contract.
const (
	priceSearchBoundPct = 20
	priceSearchStepPct  = 1
)

type observation struct {
	price float64
	qty   float64
}

type productHistory struct {
	id      int64
	name    string
	current float64
	obs     []observation
}

// RecommendPrices estimates price elasticity per product from sale-item
// history and suggests the revenue-maximising price within the search
// bound. Malformed rows (unusable price or quantity) are skipped, never
// aborting the batch; ErrInsufficientData is returned only when no product
// across the tenant has any usable history.
func RecommendPrices(items []SaleItemRecord) ([]PriceRecommendation, error) {
	histories := collectHistories(items)
	if len(histories) == 0 {
		return nil, ErrInsufficientData
	}

	recs := make([]PriceRecommendation, 0, len(histories))
	for _, h := range histories {
		recs = append(recs, recommendForProduct(h))
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].ExpectedRevenueChangePct != recs[j].ExpectedRevenueChangePct {
			return recs[i].ExpectedRevenueChangePct > recs[j].ExpectedRevenueChangePct
		}
		return recs[i].ProductID < recs[j].ProductID
	})
	return recs, nil
}

// collectHistories groups usable observations per product. Items arrive
// ordered by sale date, so the last usable row of a product carries its
// latest charged price.
func collectHistories(items []SaleItemRecord) []productHistory {
	index := make(map[int64]int)
	histories := make([]productHistory, 0)
	for _, item := range items {
		price := CoerceAmount(item.UnitPrice)
		qty := CoerceAmount(item.Quantity)
		if price <= 0 || qty <= 0 {
			continue
		}
		i, ok := index[item.ProductID]
		if !ok {
			i = len(histories)
			index[item.ProductID] = i
			histories = append(histories, productHistory{id: item.ProductID, name: item.ProductName})
		}
		histories[i].current = price
		if item.ProductName != "" {
			histories[i].name = item.ProductName
		}
		histories[i].obs = append(histories[i].obs, observation{price: price, qty: qty})
	}
	return histories
}

func recommendForProduct(h productHistory) PriceRecommendation {
	rec := PriceRecommendation{
		ProductID:         h.id,
		ProductName:       h.name,
		CurrentPrice:      h.current,
		SuggestedPrice:    h.current,
		Confidence:        ConfidenceForCount(len(h.obs)),
		HistoryDataPoints: len(h.obs),
	}

	elasticity, ok := estimateElasticity(h.obs)
	if !ok {
		// One distinct price point: elasticity is undefined and the
		// current price stands.
		return rec
	}

	baseQty := meanQtyAtPrice(h.obs, h.current)
	bestPrice, bestQty := searchOptimalPrice(h.current, baseQty, elasticity)

	rec.SuggestedPrice = round2(bestPrice)
	if baseQty > 0 {
		rec.ExpectedSalesChangePct = round2((bestQty/baseQty - 1) * 100)
	}
	currentRevenue := h.current * baseQty
	if currentRevenue > 0 {
		rec.ExpectedRevenueChangePct = round2((bestPrice*bestQty/currentRevenue - 1) * 100)
	}
	return rec
}

// estimateElasticity derives the price elasticity of demand from the
// distinct price points actually charged. Two points use arc elasticity
// between the extremes; three or more fit a least-squares line through the
// per-price mean quantities. Fewer than two distinct prices leave
// elasticity undefined.
func estimateElasticity(obs []observation) (float64, bool) {
	byPrice := make(map[float64][]float64)
	for _, o := range obs {
		byPrice[o.price] = append(byPrice[o.price], o.qty)
	}
	if len(byPrice) < 2 {
		return 0, false
	}

	prices := make([]float64, 0, len(byPrice))
	for p := range byPrice {
		prices = append(prices, p)
	}
	sort.Float64s(prices)

	meanQty := func(p float64) float64 {
		var sum float64
		for _, q := range byPrice[p] {
			sum += q
		}
		return sum / float64(len(byPrice[p]))
	}

	var e float64
	if len(prices) == 2 {
		e = arcElasticity(prices[0], meanQty(prices[0]), prices[1], meanQty(prices[1]))
	} else {
		e = regressionElasticity(prices, meanQty)
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, false
	}
	return e, true
}

// arcElasticity uses midpoint percentage changes between the two extreme
// observed price points.
func arcElasticity(p1, q1, p2, q2 float64) float64 {
	priceChange := (p2 - p1) / ((p1 + p2) / 2)
	qtyChange := (q2 - q1) / ((q1 + q2) / 2)
	if priceChange == 0 {
		return math.NaN()
	}
	return qtyChange / priceChange
}

// regressionElasticity fits quantity against price across all distinct
// price points and scales the slope to a point elasticity at the means.
func regressionElasticity(prices []float64, meanQty func(float64) float64) float64 {
	n := float64(len(prices))
	var sumP, sumQ, sumPQ, sumPP float64
	for _, p := range prices {
		q := meanQty(p)
		sumP += p
		sumQ += q
		sumPQ += p * q
		sumPP += p * p
	}
	denom := n*sumPP - sumP*sumP
	if denom == 0 {
		return math.NaN()
	}
	slope := (n*sumPQ - sumP*sumQ) / denom
	meanP := sumP / n
	meanQ := sumQ / n
	if meanQ == 0 {
		return math.NaN()
	}
	return slope * meanP / meanQ
}

// searchOptimalPrice walks the bounded price range and keeps the candidate
// with the highest projected revenue under a constant-elasticity demand
// curve. The current price wins ties, so noisy elasticity estimates do not
// produce churn for no gain.
func searchOptimalPrice(current, baseQty, elasticity float64) (float64, float64) {
	bestPrice := current
	bestQty := baseQty
	bestRevenue := current * baseQty

	for k := -priceSearchBoundPct; k <= priceSearchBoundPct; k += priceSearchStepPct {
		price := current * (1 + float64(k)/100)
		qty := predictQuantity(current, baseQty, elasticity, price)
		if revenue := price * qty; revenue > bestRevenue {
			bestPrice, bestQty, bestRevenue = price, qty, revenue
		}
	}
	return bestPrice, bestQty
}

// predictQuantity applies the constant-elasticity demand model
// q(p) = q0 * (p/p0)^e, clamped at zero.
func predictQuantity(p0, q0, elasticity, p float64) float64 {
	if p0 <= 0 || q0 <= 0 {
		return 0
	}
	q := q0 * math.Pow(p/p0, elasticity)
	if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

func meanQtyAtPrice(obs []observation, price float64) float64 {
	var sum float64
	var count int
	for _, o := range obs {
		if o.price == price {
			sum += o.qty
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
