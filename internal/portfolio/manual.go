package portfolio

import (
	"github.com/etf-portfolio/backend/internal/models"
)

// AddManualPoint inserts or replaces (by date) a manual history total.
// Manual points carry only the total value plus the invested amount at
// the time of entry; they have no per-ticker data, which lets the
// series start before any holding existed.
func AddManualPoint(s State, date string, value float64) State {
	next := s.Clone()
	next.History = upsertSnapshot(next.History, models.Snapshot{
		Date:          date,
		Timestamp:     TimestampFor(date),
		TotalValue:    sanitize(value),
		TotalInvested: TotalInvested(next.Holdings),
	})
	return next
}

// RemoveManualPoint deletes the snapshot at the given date
// unconditionally. Removing an unknown date is a no-op.
func RemoveManualPoint(s State, date string) State {
	next := s.Clone()
	history := make([]models.Snapshot, 0, len(next.History))
	for _, snap := range next.History {
		if snap.Date != date {
			history = append(history, snap)
		}
	}
	next.History = history
	return next
}
