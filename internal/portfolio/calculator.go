package portfolio

import (
	"math"

	"github.com/etf-portfolio/backend/internal/models"
)

// TotalInvested sums cost basis plus fees over all holdings.
func TotalInvested(holdings []models.Holding) float64 {
	total := 0.0
	for _, h := range holdings {
		total += h.Quantity*h.AveragePrice + h.TransactionFees
	}
	return total
}

// BreakdownAndTotal aggregates holdings at their current prices.
// It returns the per-ticker value map, a per-ticker last-seen price map
// (later holdings in list order win), and the scalar sum of all values.
func BreakdownAndTotal(holdings []models.Holding) (map[string]float64, map[string]float64, float64) {
	breakdown := make(map[string]float64, len(holdings))
	prices := make(map[string]float64, len(holdings))
	total := 0.0
	for _, h := range holdings {
		value := h.Quantity * h.CurrentPrice
		breakdown[h.Ticker] += value
		prices[h.Ticker] = h.CurrentPrice
		total += value
	}
	return breakdown, prices, total
}

// SnapshotAt computes the full snapshot for a date given an explicit
// ticker -> price override map. This is the single source of truth for
// "what does the portfolio look like if these prices held on this
// date": today's snapshot and every retroactive recomputation go
// through it.
//
// Tickers absent from priceMap fall back to the holding's own current
// price, and the fallback is written back into priceMap so later
// holdings of the same ticker see a consistent map. Callers that need
// the original map must pass a copy.
func SnapshotAt(holdings []models.Holding, priceMap map[string]float64, date string, funds models.Funds) models.Snapshot {
	if priceMap == nil {
		priceMap = make(map[string]float64)
	}
	breakdown := make(map[string]float64, len(holdings))
	invested := 0.0
	sum := 0.0
	for _, h := range holdings {
		price, ok := priceMap[h.Ticker]
		if !ok {
			price = h.CurrentPrice
			priceMap[h.Ticker] = price
		}
		value := h.Quantity * price
		breakdown[h.Ticker] += value
		sum += value
		invested += h.Quantity*h.AveragePrice + h.TransactionFees
	}
	prices := make(map[string]float64, len(breakdown))
	for ticker := range breakdown {
		prices[ticker] = priceMap[ticker]
	}
	return models.Snapshot{
		Date:          date,
		Timestamp:     TimestampFor(date),
		TotalValue:    sum + funds.Cash + funds.Assets,
		TotalInvested: invested,
		Breakdown:     breakdown,
		Prices:        prices,
	}
}

// Summarize computes the read-only aggregate shown on the dashboard.
// PercentageResult is zero when nothing has been invested yet.
func Summarize(holdings []models.Holding, funds models.Funds) models.PortfolioSummary {
	invested := 0.0
	etfValue := 0.0
	fees := 0.0
	for _, h := range holdings {
		invested += h.Quantity*h.AveragePrice + h.TransactionFees
		etfValue += h.Quantity * h.CurrentPrice
		fees += h.TransactionFees
	}
	result := etfValue - invested
	percentage := 0.0
	if invested > 0 {
		percentage = result / invested * 100
	}
	return models.PortfolioSummary{
		TotalInvested:    invested,
		ETFValue:         etfValue,
		Cash:             funds.Cash,
		Assets:           funds.Assets,
		CurrentValue:     etfValue + funds.Cash + funds.Assets,
		TotalFees:        fees,
		TotalResult:      result,
		PercentageResult: percentage,
	}
}

// priceTolerance is the float equality tolerance used when deciding
// whether a later snapshot still carries a stale price.
const priceTolerance = 0.001

func pricesEqual(a, b float64) bool {
	return math.Abs(a-b) <= priceTolerance
}
