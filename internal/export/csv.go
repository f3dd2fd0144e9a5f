// Package export produces tabular reports of the portfolio. It reads
// the holdings list and snapshot series without modifying them.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/etf-portfolio/backend/internal/models"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

// WriteCSV writes a two-section report: the holdings with all their
// fields, then the valuation history flattened per ticker through the
// chart presenter so manual gaps are forward-filled.
func WriteCSV(w io.Writer, holdings []models.Holding, history []models.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := writeHoldings(cw, holdings); err != nil {
		return err
	}
	if err := cw.Write(nil); err != nil {
		return err
	}
	if err := writeHistory(cw, holdings, history); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func writeHoldings(cw *csv.Writer, holdings []models.Holding) error {
	header := []string{"ticker", "name", "sector", "quantity", "average_price", "transaction_fees", "current_price", "purchase_date"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, h := range holdings {
		row := []string{
			h.Ticker,
			h.Name,
			h.Sector,
			formatNumber(h.Quantity),
			formatNumber(h.AveragePrice),
			formatNumber(h.TransactionFees),
			formatNumber(h.CurrentPrice),
			h.PurchaseDate,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeHistory(cw *csv.Writer, holdings []models.Holding, history []models.Snapshot) error {
	points := portfolio.ChartSeries(history, holdings)

	// Collect every ticker the series has ever seen so all rows share
	// one column layout.
	seen := make(map[string]bool)
	tickers := make([]string, 0)
	for _, p := range points {
		for ticker := range p.Values {
			if !seen[ticker] {
				seen[ticker] = true
				tickers = append(tickers, ticker)
			}
		}
	}
	sort.Strings(tickers)

	header := append([]string{"date", "total_value", "total_invested"}, tickers...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{p.Date, formatNumber(p.TotalValue), formatNumber(p.TotalInvested)}
		for _, ticker := range tickers {
			if value, ok := p.Values[ticker]; ok {
				row = append(row, formatNumber(value))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
