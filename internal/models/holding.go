package models

import (
	"time"
)

// Holding represents one ETF position in the portfolio.
// Multiple holdings may share a ticker; they aggregate into a single
// breakdown entry when snapshots are computed.
type Holding struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Ticker          string    `json:"ticker" gorm:"not null;index"`
	Name            string    `json:"name"`
	Sector          string    `json:"sector"`
	Quantity        float64   `json:"quantity"`
	AveragePrice    float64   `json:"average_price"`
	TransactionFees float64   `json:"transaction_fees"` // always stored as a positive absolute value
	CurrentPrice    float64   `json:"current_price"`
	PurchaseDate    string    `json:"purchase_date"` // YYYY-MM-DD, no time component
	UpdatedAt       time.Time `json:"updated_at"`
}

// HoldingRequest is the payload for creating or editing a holding.
// The ID and UpdatedAt fields are always server-generated.
type HoldingRequest struct {
	Ticker          string  `json:"ticker" binding:"required"`
	Name            string  `json:"name"`
	Sector          string  `json:"sector"`
	Quantity        float64 `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	TransactionFees float64 `json:"transaction_fees"`
	CurrentPrice    float64 `json:"current_price"`
	PurchaseDate    string  `json:"purchase_date" binding:"required"`
}

// PriceCorrectionRequest corrects a single holding's price on a given date.
type PriceCorrectionRequest struct {
	Price float64 `json:"price"`
	Date  string  `json:"date" binding:"required"`
}

// PriceUpdate is one entry of a bulk current-price refresh.
type PriceUpdate struct {
	ID    string  `json:"id" binding:"required"`
	Price float64 `json:"price"`
}

// BulkPriceUpdateRequest refreshes current prices for several holdings at once.
type BulkPriceUpdateRequest struct {
	Updates []PriceUpdate `json:"updates" binding:"required"`
}
