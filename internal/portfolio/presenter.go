package portfolio

import (
	"sort"

	"github.com/etf-portfolio/backend/internal/models"
)

// UnknownSeries is the synthetic ticker used when a manual point
// predates any known per-ticker data and more than one (or zero)
// holdings exist to attribute it to.
const UnknownSeries = "unknown"

// ChartPoint is one flattened row of the charting series: the totals
// for a date plus one value per ticker ever seen.
type ChartPoint struct {
	Date          string             `json:"date"`
	Timestamp     int64              `json:"timestamp"`
	TotalValue    float64            `json:"total_value"`
	TotalInvested float64            `json:"total_invested"`
	Values        map[string]float64 `json:"values"`
}

// ChartSeries flattens the snapshot series for charting. Snapshots with
// a breakdown contribute their values directly; manual points forward-
// fill the last known value of every previously-seen ticker so each
// asset renders as a continuous line. A manual point seen before any
// breakdown is attributed to the sole existing ticker when exactly one
// exists, otherwise to the synthetic "unknown" series.
//
// This is a read-only transform: the input series is never mutated.
func ChartSeries(history []models.Snapshot, holdings []models.Holding) []ChartPoint {
	sorted := make([]models.Snapshot, len(history))
	copy(sorted, history)
	sortHistory(sorted)

	lastKnown := make(map[string]float64)
	points := make([]ChartPoint, 0, len(sorted))
	for _, snap := range sorted {
		point := ChartPoint{
			Date:          snap.Date,
			Timestamp:     snap.Timestamp,
			TotalValue:    snap.TotalValue,
			TotalInvested: snap.TotalInvested,
			Values:        make(map[string]float64),
		}
		switch {
		case snap.Breakdown != nil:
			for ticker, value := range snap.Breakdown {
				point.Values[ticker] = value
				lastKnown[ticker] = value
			}
		case len(lastKnown) > 0:
			for ticker, value := range lastKnown {
				point.Values[ticker] = value
			}
		default:
			point.Values[attributionTicker(holdings)] = snap.TotalValue
		}
		points = append(points, point)
	}
	return points
}

func attributionTicker(holdings []models.Holding) string {
	unique := make(map[string]struct{}, len(holdings))
	sole := ""
	for _, h := range holdings {
		unique[h.Ticker] = struct{}{}
		sole = h.Ticker
	}
	if len(unique) == 1 {
		return sole
	}
	return UnknownSeries
}

// PricePoint is one row of a single ticker's price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Value float64 `json:"value"`
}

// PriceHistory lists the known prices for one ticker, newest first.
// The stored unit price is preferred; legacy snapshots that carry a
// breakdown but no price map fall back to value divided by the ticker's
// current total quantity.
func PriceHistory(history []models.Snapshot, holdings []models.Holding, ticker string) []PricePoint {
	totalQuantity := 0.0
	for _, h := range holdings {
		if h.Ticker == ticker {
			totalQuantity += h.Quantity
		}
	}

	points := make([]PricePoint, 0, len(history))
	for _, snap := range history {
		value, ok := snap.Breakdown[ticker]
		if !ok {
			continue
		}
		price, ok := snap.Prices[ticker]
		if !ok {
			if totalQuantity > 0 {
				price = value / totalQuantity
			} else {
				price = 0
			}
		}
		points = append(points, PricePoint{Date: snap.Date, Price: price, Value: value})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date > points[j].Date
	})
	return points
}

// Tickers returns the sorted set of distinct tickers in the holdings.
func Tickers(holdings []models.Holding) []string {
	seen := make(map[string]struct{}, len(holdings))
	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.Ticker]; !ok {
			seen[h.Ticker] = struct{}{}
			tickers = append(tickers, h.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}
