// Package portfolio implements the valuation engine: pure transition
// functions over the portfolio state (holdings, funds, snapshot
// history) plus the Session that owns a state value and serializes
// mutations.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/etf-portfolio/backend/internal/models"
)

// State is the complete in-memory portfolio: the source of truth for
// the current session. Transition functions never mutate a State in
// place; they build and return the next one.
type State struct {
	Holdings []models.Holding
	Funds    models.Funds
	History  []models.Snapshot
}

// Clone returns a deep copy of the state, including the ticker maps
// inside each snapshot.
func (s State) Clone() State {
	next := State{
		Holdings: make([]models.Holding, len(s.Holdings)),
		Funds:    s.Funds,
		History:  make([]models.Snapshot, len(s.History)),
	}
	copy(next.Holdings, s.Holdings)
	for i, snap := range s.History {
		snap.Breakdown = copyTickerMap(snap.Breakdown)
		snap.Prices = copyTickerMap(snap.Prices)
		next.History[i] = snap
	}
	return next
}

func copyTickerMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// sortHistory orders snapshots ascending by timestamp.
func sortHistory(history []models.Snapshot) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp < history[j].Timestamp
	})
}

// upsertSnapshot replaces any snapshot sharing the date and re-sorts.
// Filter-then-append-then-sort keeps the series sorted and free of
// duplicate dates by construction.
func upsertSnapshot(history []models.Snapshot, snap models.Snapshot) []models.Snapshot {
	next := make([]models.Snapshot, 0, len(history)+1)
	for _, s := range history {
		if s.Date != snap.Date {
			next = append(next, s)
		}
	}
	next = append(next, snap)
	sortHistory(next)
	return next
}

func snapshotIndex(history []models.Snapshot, date string) int {
	for i, s := range history {
		if s.Date == date {
			return i
		}
	}
	return -1
}

// DateFormat is the calendar date layout used throughout the engine.
const DateFormat = "2006-01-02"

// Today returns the current calendar date in local time.
func Today() string {
	return time.Now().Format(DateFormat)
}

// TimestampFor derives the ordering timestamp for a date string:
// midnight UTC in unix milliseconds, so ordering does not depend on
// the machine's timezone. Unparseable dates order first.
func TimestampFor(date string) int64 {
	t, err := time.ParseInLocation(DateFormat, date, time.UTC)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// sanitize coerces NaN and infinities to zero. Upstream forms validate
// input, but the engine must degrade to a safe default instead of
// letting garbage poison the series.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
