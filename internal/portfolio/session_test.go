package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/etf-portfolio/backend/internal/models"
)

type fakeStore struct {
	holdingsSaves int
	fundsSaves    int
	historySaves  int
	err           error
}

func (f *fakeStore) SaveHoldings([]models.Holding) error { f.holdingsSaves++; return f.err }
func (f *fakeStore) SaveFunds(models.Funds) error        { f.fundsSaves++; return f.err }
func (f *fakeStore) SaveHistory([]models.Snapshot) error { f.historySaves++; return f.err }

func newTestSession(initial State, store Store) *Session {
	s := NewSession(initial, store)
	s.now = func() time.Time { return testNow }
	return s
}

func TestSessionPersistsAfterMutation(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(State{}, store)

	s.AddHolding(models.HoldingRequest{
		Ticker: "ABC", Quantity: 10, AveragePrice: 100, CurrentPrice: 100, PurchaseDate: testToday,
	})

	if store.holdingsSaves != 1 || store.historySaves != 1 {
		t.Errorf("saves = %d/%d, want 1/1", store.holdingsSaves, store.historySaves)
	}

	s.SetFunds(models.Funds{Cash: 100})
	if store.fundsSaves != 1 {
		t.Errorf("funds saves = %d, want 1", store.fundsSaves)
	}
}

func TestSessionKeepsStateWhenPersistenceFails(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	s := newTestSession(State{}, store)

	holding := s.AddHolding(models.HoldingRequest{
		Ticker: "ABC", Quantity: 10, AveragePrice: 100, CurrentPrice: 100, PurchaseDate: testToday,
	})

	// In-memory state is the source of truth for the session; a failed
	// write must not roll it back.
	if len(s.Holdings()) != 1 {
		t.Fatal("holding lost after persistence failure")
	}
	if !s.DeleteHolding(holding.ID) {
		t.Error("state diverged after persistence failure")
	}
}

func TestSessionUnknownIDsAreNoops(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(State{}, store)

	if s.EditHolding("missing", models.HoldingRequest{Ticker: "A", PurchaseDate: testToday}) {
		t.Error("edit of unknown id must report false")
	}
	if s.DeleteHolding("missing") {
		t.Error("delete of unknown id must report false")
	}
	if s.CorrectPrice("missing", 10, testToday) {
		t.Error("correction of unknown id must report false")
	}
	if store.holdingsSaves != 0 || store.historySaves != 0 {
		t.Error("no-ops must not persist")
	}
}

func TestSessionUpdatePrices(t *testing.T) {
	s := newTestSession(State{}, &fakeStore{})
	h1 := s.AddHolding(models.HoldingRequest{
		Ticker: "ABC", Quantity: 10, AveragePrice: 100, CurrentPrice: 100, PurchaseDate: testToday,
	})
	h2 := s.AddHolding(models.HoldingRequest{
		Ticker: "XYZ", Quantity: 2, AveragePrice: 50, CurrentPrice: 50, PurchaseDate: testToday,
	})

	applied := s.UpdatePrices([]models.PriceUpdate{
		{ID: h1.ID, Price: 110},
		{ID: h2.ID, Price: 55},
		{ID: "missing", Price: 1},
	})

	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	for _, h := range s.Holdings() {
		switch h.ID {
		case h1.ID:
			if !almostEqual(h.CurrentPrice, 110) {
				t.Errorf("ABC price = %v, want 110", h.CurrentPrice)
			}
		case h2.ID:
			if !almostEqual(h.CurrentPrice, 55) {
				t.Errorf("XYZ price = %v, want 55", h.CurrentPrice)
			}
		}
	}

	summary := s.Summary()
	if !almostEqual(summary.ETFValue, 10*110+2*55) {
		t.Errorf("ETFValue = %v, want %v", summary.ETFValue, 10*110+2*55.0)
	}
}

func TestSessionChartSeriesCache(t *testing.T) {
	s := newTestSession(State{}, &fakeStore{})
	s.AddManualPoint("2024-01-01", 1000)

	first := s.ChartSeries()
	second := s.ChartSeries()
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("series lengths = %d/%d, want 1/1", len(first), len(second))
	}

	// A mutation bumps the revision and invalidates the cached series.
	s.AddManualPoint("2024-01-02", 1100)
	third := s.ChartSeries()
	if len(third) != 2 {
		t.Errorf("series after mutation has %d points, want 2", len(third))
	}
}

func TestSessionHistoryIsACopy(t *testing.T) {
	s := newTestSession(State{}, &fakeStore{})
	s.AddHolding(models.HoldingRequest{
		Ticker: "ABC", Quantity: 1, AveragePrice: 10, CurrentPrice: 10, PurchaseDate: testToday,
	})

	history := s.History()
	history[0].Breakdown["ABC"] = -1

	if !almostEqual(s.History()[0].Breakdown["ABC"], 10) {
		t.Error("History() must return a deep copy")
	}
}
