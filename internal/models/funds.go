package models

// Funds holds value kept outside the tracked positions: free cash and
// receivable claims. Replaced wholesale on every update.
type Funds struct {
	Cash   float64 `json:"cash"`
	Assets float64 `json:"assets"`
}

// FundsRecord is the persisted form of Funds. A portfolio has exactly
// one row (id = 1).
type FundsRecord struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Cash   float64 `json:"cash"`
	Assets float64 `json:"assets"`
}

// PortfolioSummary is the read-only aggregate recomputed on every state change.
type PortfolioSummary struct {
	TotalInvested    float64 `json:"total_invested"` // (qty * avg price) + fees
	ETFValue         float64 `json:"etf_value"`      // qty * current price, holdings only
	Cash             float64 `json:"cash"`
	Assets           float64 `json:"assets"`
	CurrentValue     float64 `json:"current_value"` // etf value + cash + assets
	TotalFees        float64 `json:"total_fees"`
	TotalResult      float64 `json:"total_result"` // etf value - total invested
	PercentageResult float64 `json:"percentage_result"`
}
