package models

import (
	"encoding/json"
	"log"
)

// Snapshot records the portfolio valuation for one calendar date.
// The series holds at most one snapshot per date and is kept sorted
// ascending by Timestamp.
//
// Breakdown and Prices are either both present (snapshot produced by
// recomputation from holdings) or both nil (manual total entered by the
// user, e.g. a pre-migration data point).
type Snapshot struct {
	Date          string             `json:"date"` // YYYY-MM-DD, unique within the series
	Timestamp     int64              `json:"timestamp"`
	TotalValue    float64            `json:"total_value"`
	TotalInvested float64            `json:"total_invested"`
	Breakdown     map[string]float64 `json:"breakdown,omitempty"` // ticker -> aggregated value
	Prices        map[string]float64 `json:"prices,omitempty"`    // ticker -> unit price
}

// IsManual reports whether this snapshot is a manual total with no
// per-ticker data.
func (s Snapshot) IsManual() bool {
	return s.Breakdown == nil && s.Prices == nil
}

// SnapshotRecord is the persisted form of Snapshot. The ticker maps are
// stored as JSON text so the schema stays flat; an empty string means
// the map was absent.
type SnapshotRecord struct {
	Date          string  `json:"date" gorm:"primaryKey"`
	Timestamp     int64   `json:"timestamp" gorm:"index"`
	TotalValue    float64 `json:"total_value"`
	TotalInvested float64 `json:"total_invested"`
	Breakdown     string  `json:"breakdown"`
	Prices        string  `json:"prices"`
}

// NewSnapshotRecord converts a Snapshot to its persisted form.
func NewSnapshotRecord(s Snapshot) SnapshotRecord {
	return SnapshotRecord{
		Date:          s.Date,
		Timestamp:     s.Timestamp,
		TotalValue:    s.TotalValue,
		TotalInvested: s.TotalInvested,
		Breakdown:     encodeTickerMap(s.Breakdown),
		Prices:        encodeTickerMap(s.Prices),
	}
}

// ToSnapshot converts a persisted record back to a Snapshot. Corrupt
// map columns degrade to nil rather than failing the whole load.
func (r SnapshotRecord) ToSnapshot() Snapshot {
	return Snapshot{
		Date:          r.Date,
		Timestamp:     r.Timestamp,
		TotalValue:    r.TotalValue,
		TotalInvested: r.TotalInvested,
		Breakdown:     decodeTickerMap(r.Breakdown, r.Date, "breakdown"),
		Prices:        decodeTickerMap(r.Prices, r.Date, "prices"),
	}
}

func encodeTickerMap(m map[string]float64) string {
	if m == nil {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeTickerMap(data, date, column string) map[string]float64 {
	if data == "" {
		return nil
	}
	var m map[string]float64
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		log.Printf("Ignoring corrupt %s column for snapshot %s: %v", column, date, err)
		return nil
	}
	return m
}

// ManualPointRequest adds or replaces a manual history total.
type ManualPointRequest struct {
	Date  string  `json:"date" binding:"required"`
	Value float64 `json:"value"`
}
