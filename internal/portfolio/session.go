package portfolio

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/etf-portfolio/backend/internal/metrics"
	"github.com/etf-portfolio/backend/internal/models"
)

// Store persists the three portfolio collections. A write failure never
// reverts the in-memory state: for the running session, memory is the
// source of truth and persistence is a best-effort side effect.
type Store interface {
	SaveHoldings([]models.Holding) error
	SaveFunds(models.Funds) error
	SaveHistory([]models.Snapshot) error
}

// chartCacheSize bounds the revision-keyed cache of presenter output.
// Only the latest revision is ever requested in practice; a few extra
// slots cover readers racing a mutation.
const chartCacheSize = 8

// Session owns the portfolio state for one running process. All
// mutations funnel through its mutex, so they are strictly serialized
// in call order; the transition functions themselves stay pure.
type Session struct {
	mu         sync.Mutex
	state      State
	store      Store
	revision   uint64
	chartCache *lru.Cache[uint64, []ChartPoint]
	now        func() time.Time
}

// NewSession wraps a loaded state. The history is sorted on entry so a
// hand-edited or legacy database cannot violate the ordering invariant.
func NewSession(initial State, store Store) *Session {
	cache, _ := lru.New[uint64, []ChartPoint](chartCacheSize)
	sortHistory(initial.History)
	s := &Session{
		state:      initial,
		store:      store,
		chartCache: cache,
		now:        time.Now,
	}
	s.updateGauges()
	return s
}

// AddHolding creates a holding and reconciles the history.
func (s *Session) AddHolding(req models.HoldingRequest) models.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, holding := AddHolding(s.state, req, s.now())
	s.commit(next, saveHoldings|saveHistory)
	metrics.SnapshotWritesTotal.Inc()
	return holding
}

// EditHolding replaces a holding's fields. Unknown ids are a no-op and
// report false.
func (s *Session) EditHolding(id string, req models.HoldingRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := EditHolding(s.state, id, req, s.now())
	if !ok {
		return false
	}
	s.commit(next, saveHoldings|saveHistory)
	metrics.SnapshotWritesTotal.Inc()
	return true
}

// DeleteHolding removes a holding and recomputes today's snapshot.
func (s *Session) DeleteHolding(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := DeleteHolding(s.state, id, s.now())
	if !ok {
		return false
	}
	s.commit(next, saveHoldings|saveHistory)
	metrics.SnapshotWritesTotal.Inc()
	return true
}

// CorrectPrice applies a retroactive price correction for the holding's
// ticker and propagates it forward through stale snapshots.
func (s *Session) CorrectPrice(id string, price float64, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := CorrectPrice(s.state, id, price, date, s.now())
	if !ok {
		return false
	}
	s.commit(next, saveHoldings|saveHistory)
	metrics.PriceCorrectionsTotal.Inc()
	return true
}

// UpdatePrices applies a bulk current-price refresh: each entry is a
// price correction effective today, so the usual propagation and
// current-price bookkeeping apply. Returns how many entries matched an
// existing holding; unknown ids are skipped.
func (s *Session) UpdatePrices(updates []models.PriceUpdate) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.now().Format(DateFormat)
	next := s.state
	applied := 0
	for _, u := range updates {
		var ok bool
		if next, ok = CorrectPrice(next, u.ID, u.Price, today, s.now()); ok {
			applied++
			metrics.PriceCorrectionsTotal.Inc()
		}
	}
	if applied > 0 {
		s.commit(next, saveHoldings|saveHistory)
	}
	return applied
}

// SetFunds replaces the funds record and recomputes today's snapshot.
func (s *Session) SetFunds(funds models.Funds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := SetFunds(s.state, funds, s.now())
	s.commit(next, saveFunds|saveHistory)
}

// AddManualPoint inserts or replaces a manual history total.
func (s *Session) AddManualPoint(date string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(AddManualPoint(s.state, date, value), saveHistory)
	metrics.SnapshotWritesTotal.Inc()
}

// RemoveManualPoint deletes the snapshot at the given date.
func (s *Session) RemoveManualPoint(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(RemoveManualPoint(s.state, date), saveHistory)
}

// Holdings returns a copy of the current positions.
func (s *Session) Holdings() []models.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Holding, len(s.state.Holdings))
	copy(out, s.state.Holdings)
	return out
}

// Funds returns the current funds record.
func (s *Session) Funds() models.Funds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Funds
}

// History returns a deep copy of the snapshot series, oldest first.
func (s *Session) History() []models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone().History
}

// Summary recomputes the dashboard aggregate from the current state.
func (s *Session) Summary() models.PortfolioSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.state.Holdings, s.state.Funds)
}

// ChartSeries returns the gap-filled charting series. The flattening is
// O(snapshots x tickers), so the result is cached per state revision
// and reused until the next mutation.
func (s *Session) ChartSeries() []ChartPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if points, ok := s.chartCache.Get(s.revision); ok {
		return points
	}
	points := ChartSeries(s.state.History, s.state.Holdings)
	s.chartCache.Add(s.revision, points)
	return points
}

// PriceHistory lists the known prices for one ticker, newest first.
func (s *Session) PriceHistory(ticker string) []PricePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PriceHistory(s.state.History, s.state.Holdings, ticker)
}

// Tickers returns the distinct tickers currently held.
func (s *Session) Tickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Tickers(s.state.Holdings)
}

type saveMask int

const (
	saveHoldings saveMask = 1 << iota
	saveFunds
	saveHistory
)

// commit installs the next state, bumps the revision, refreshes gauges
// and persists the changed collections. Persistence errors are logged
// and counted but never roll back the in-memory state.
func (s *Session) commit(next State, mask saveMask) {
	s.state = next
	s.revision++
	s.updateGauges()
	if s.store == nil {
		return
	}
	if mask&saveHoldings != 0 {
		if err := s.store.SaveHoldings(next.Holdings); err != nil {
			log.Printf("Failed to persist holdings: %v", err)
			metrics.PersistenceErrorsTotal.Inc()
		}
	}
	if mask&saveFunds != 0 {
		if err := s.store.SaveFunds(next.Funds); err != nil {
			log.Printf("Failed to persist funds: %v", err)
			metrics.PersistenceErrorsTotal.Inc()
		}
	}
	if mask&saveHistory != 0 {
		if err := s.store.SaveHistory(next.History); err != nil {
			log.Printf("Failed to persist history: %v", err)
			metrics.PersistenceErrorsTotal.Inc()
		}
	}
}

func (s *Session) updateGauges() {
	summary := Summarize(s.state.Holdings, s.state.Funds)
	metrics.PortfolioValue.Set(summary.CurrentValue)
	metrics.PortfolioInvested.Set(summary.TotalInvested)
	metrics.HoldingsTotal.Set(float64(len(s.state.Holdings)))
	metrics.SnapshotsTotal.Set(float64(len(s.state.History)))
}
