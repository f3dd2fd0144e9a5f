package portfolio

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/etf-portfolio/backend/internal/models"
)

// AddHolding creates a new position and reconciles the history: today's
// snapshot is recomputed from the full post-add holdings list, and a
// backdated purchase point is synthesized if the purchase date has no
// snapshot yet. Returns the next state and the created holding.
func AddHolding(s State, req models.HoldingRequest, now time.Time) (State, models.Holding) {
	holding := buildHolding(uuid.New().String(), req, now)
	next := s.Clone()
	next.Holdings = append(next.Holdings, holding)
	next.History = reconcileHoldingChange(next, holding, now)
	return next, holding
}

// EditHolding replaces the fields of an existing position (the id and
// ticker-to-id binding stay stable) and reconciles the history the same
// way as AddHolding. Editing an unknown id is a no-op.
func EditHolding(s State, id string, req models.HoldingRequest, now time.Time) (State, bool) {
	idx := holdingIndex(s.Holdings, id)
	if idx < 0 {
		return s, false
	}
	holding := buildHolding(id, req, now)
	next := s.Clone()
	next.Holdings[idx] = holding
	next.History = reconcileHoldingChange(next, holding, now)
	return next, true
}

// DeleteHolding removes a position and recomputes today's snapshot from
// the remaining holdings. Retroactive snapshots are left untouched.
// Deleting an unknown id is a no-op.
func DeleteHolding(s State, id string, now time.Time) (State, bool) {
	idx := holdingIndex(s.Holdings, id)
	if idx < 0 {
		return s, false
	}
	next := s.Clone()
	next.Holdings = append(next.Holdings[:idx], next.Holdings[idx+1:]...)
	today := now.Format(DateFormat)
	snap := SnapshotAt(next.Holdings, make(map[string]float64), today, next.Funds)
	next.History = upsertSnapshot(next.History, snap)
	return next, true
}

// SetFunds replaces the cash/assets record wholesale and recomputes
// today's snapshot so the new grand total is reflected immediately.
// Values are sanitized and clamped to zero from below.
func SetFunds(s State, funds models.Funds, now time.Time) State {
	next := s.Clone()
	next.Funds = models.Funds{
		Cash:   math.Max(0, sanitize(funds.Cash)),
		Assets: math.Max(0, sanitize(funds.Assets)),
	}
	today := now.Format(DateFormat)
	snap := SnapshotAt(next.Holdings, make(map[string]float64), today, next.Funds)
	next.History = upsertSnapshot(next.History, snap)
	return next
}

// CorrectPrice fixes a single holding's price on an effective date and
// propagates the fix forward through later snapshots that were still
// carrying the stale value.
//
// The forward walk uses equality of the old value as a local proxy for
// "never independently edited": daily snapshots carry the last known
// price forward, so a run of identical stale values means nobody
// touched this ticker since, and the first divergent value marks a
// later correction that must not be clobbered. Two genuinely different
// historical facts that happen to share the same number are
// indistinguishable to this heuristic and will be overwritten together;
// that is an accepted limitation, not a bug to fix here.
//
// Correcting through an unknown holding id is a no-op. The operation is
// idempotent: applying the same correction twice yields the same series.
func CorrectPrice(s State, id string, newPrice float64, date string, now time.Time) (State, bool) {
	idx := holdingIndex(s.Holdings, id)
	if idx < 0 {
		return s, false
	}
	next := s.Clone()
	ticker := next.Holdings[idx].Ticker
	newPrice = sanitize(newPrice)
	targetTS := TimestampFor(date)
	sortHistory(next.History)

	// The price this ticker held at the effective date before the
	// edit: from the snapshot at that date, or the nearest preceding
	// one that carries it. Undefined when this is the first known
	// price point.
	matchValue := 0.0
	matchDefined := false
	for _, snap := range next.History {
		if snap.Timestamp > targetTS {
			break
		}
		if price, ok := snap.Prices[ticker]; ok {
			matchValue = price
			matchDefined = true
		}
	}

	// Base price map for the recomputed snapshot: the existing map at
	// the date, else the nearest preceding map, else empty. Missing
	// tickers are filled from current holding prices inside SnapshotAt
	// so the recomputed snapshot is complete.
	base := make(map[string]float64)
	if i := snapshotIndex(next.History, date); i >= 0 {
		for k, v := range next.History[i].Prices {
			base[k] = v
		}
	} else {
		for _, snap := range next.History {
			if snap.Timestamp >= targetTS {
				break
			}
			if snap.Prices != nil {
				base = copyTickerMap(snap.Prices)
			}
		}
	}
	base[ticker] = newPrice
	edited := SnapshotAt(next.Holdings, base, date, next.Funds)
	next.History = upsertSnapshot(next.History, edited)

	// Walk forward through strictly later snapshots, rewriting the run
	// of stale values. Stop at the first snapshot whose old price
	// diverges: it and everything after hold intentional values.
	for i, snap := range next.History {
		if snap.Timestamp <= targetTS {
			continue
		}
		old, hasOld := snap.Prices[ticker]
		propagate := false
		if matchDefined {
			propagate = hasOld && pricesEqual(old, matchValue)
		} else {
			propagate = !hasOld || old == 0
		}
		if !propagate {
			break
		}
		pm := copyTickerMap(snap.Prices)
		if pm == nil {
			pm = make(map[string]float64)
		}
		pm[ticker] = newPrice
		next.History[i] = SnapshotAt(next.Holdings, pm, snap.Date, next.Funds)
	}

	// The holding's current price follows the chronologically last
	// snapshot for the ticker, which may be later than the edited date.
	last := newPrice
	for _, snap := range next.History {
		if price, ok := snap.Prices[ticker]; ok {
			last = price
		}
	}
	next.Holdings[idx].CurrentPrice = last
	next.Holdings[idx].UpdatedAt = now
	return next, true
}

// buildHolding normalizes request fields into a Holding. Fees are
// stored as an absolute value regardless of the sign typed by the user;
// numeric garbage coerces to zero.
func buildHolding(id string, req models.HoldingRequest, now time.Time) models.Holding {
	return models.Holding{
		ID:              id,
		Ticker:          req.Ticker,
		Name:            req.Name,
		Sector:          req.Sector,
		Quantity:        sanitize(req.Quantity),
		AveragePrice:    sanitize(req.AveragePrice),
		TransactionFees: math.Abs(sanitize(req.TransactionFees)),
		CurrentPrice:    sanitize(req.CurrentPrice),
		PurchaseDate:    req.PurchaseDate,
		UpdatedAt:       now,
	}
}

// reconcileHoldingChange performs the two snapshot writes that follow a
// holding add or edit: today's snapshot is always recomputed from the
// full post-edit holdings list, and a synthetic purchase point is
// backfilled when the purchase date is not today and has no snapshot.
func reconcileHoldingChange(s State, changed models.Holding, now time.Time) []models.Snapshot {
	today := now.Format(DateFormat)
	history := upsertSnapshot(s.History, SnapshotAt(s.Holdings, make(map[string]float64), today, s.Funds))

	if changed.PurchaseDate != today && snapshotIndex(history, changed.PurchaseDate) < 0 {
		history = append(history, syntheticPurchasePoint(s, changed))
		sortHistory(history)
	}
	return history
}

// syntheticPurchasePoint backfills a snapshot for a backdated purchase:
// the changed holding is valued at its average (purchase) price, while
// all other holdings are valued at today's current price because no
// historical price for them is known at that date. The result is a
// best-effort approximation of the portfolio as of the purchase, not an
// exact historical total. It is only created when the date is free,
// never overwritten onto an existing snapshot.
func syntheticPurchasePoint(s State, changed models.Holding) models.Snapshot {
	others := make([]models.Holding, 0, len(s.Holdings))
	for _, h := range s.Holdings {
		if h.ID != changed.ID {
			others = append(others, h)
		}
	}
	snap := SnapshotAt(others, make(map[string]float64), changed.PurchaseDate, s.Funds)
	purchaseValue := changed.Quantity * changed.AveragePrice
	snap.Breakdown[changed.Ticker] += purchaseValue
	snap.Prices[changed.Ticker] = changed.AveragePrice
	snap.TotalValue += purchaseValue
	snap.TotalInvested += changed.Quantity*changed.AveragePrice + changed.TransactionFees
	return snap
}

func holdingIndex(holdings []models.Holding, id string) int {
	for i, h := range holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}
