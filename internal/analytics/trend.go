package analytics

import "quant_go/internal/domain"

// Default SMA windows for trend tracking over a trade tape.
const (
	DefaultShortWindow = 20
	DefaultLongWindow  = 50
)

// TrendTracker maintains rolling short and long simple moving averages over
// observed prices and counts the crossings between them. A golden cross is
// the short SMA moving above the long, a dead cross the reverse; together
// they measure how trendy or choppy a price path was.
//
// The tracker is stateful and deterministic. A ring buffer sized to the long
// window keeps Observe zero-alloc in the hot path.
type TrendTracker struct {
	shortWindow int
	longWindow  int

	prices []float64
	head   int     // next write position
	count  int     // elements filled
	sum    float64 // running sum over the long window

	prevShort float64
	prevLong  float64
	primed    bool // prev values hold a full-window sample

	golden uint64
	dead   uint64
}

// NewTrendTracker creates a tracker. The short window must be at least 1 and
// strictly less than the long window.
func NewTrendTracker(shortWindow, longWindow int) *TrendTracker {
	if shortWindow < 1 || shortWindow >= longWindow {
		panic("TrendTracker: short window must be in [1, longWindow)")
	}
	return &TrendTracker{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		prices:      make([]float64, longWindow),
	}
}

// Observe feeds one price into the window and updates the cross counters.
func (t *TrendTracker) Observe(price float64) {
	// When full, head points at the oldest value; retire it from the sum
	// before overwriting.
	if t.count == t.longWindow {
		t.sum -= t.prices[t.head]
	}

	t.prices[t.head] = price
	t.sum += price
	t.head = (t.head + 1) % t.longWindow
	if t.count < t.longWindow {
		t.count++
	}

	if t.count < t.longWindow {
		return
	}

	currLong := t.sum / float64(t.longWindow)
	currShort := t.shortSMA()

	if t.primed {
		if t.prevShort <= t.prevLong && currShort > currLong {
			t.golden++
		}
		if t.prevShort >= t.prevLong && currShort < currLong {
			t.dead++
		}
	}

	t.prevShort = currShort
	t.prevLong = currLong
	t.primed = true
}

// shortSMA averages the newest shortWindow entries, walking backwards from
// the write position.
func (t *TrendTracker) shortSMA() float64 {
	sum := 0.0
	idx := t.head
	for i := 0; i < t.shortWindow; i++ {
		idx--
		if idx < 0 {
			idx = t.longWindow - 1
		}
		sum += t.prices[idx]
	}
	return sum / float64(t.shortWindow)
}

// Ready reports whether a full long window has been observed.
func (t *TrendTracker) Ready() bool {
	return t.count == t.longWindow
}

// ShortSMA returns the current short moving average, or 0 before Ready.
func (t *TrendTracker) ShortSMA() float64 {
	if !t.primed {
		return 0
	}
	return t.prevShort
}

// LongSMA returns the current long moving average, or 0 before Ready.
func (t *TrendTracker) LongSMA() float64 {
	if !t.primed {
		return 0
	}
	return t.prevLong
}

// Crosses returns the golden and dead cross counts so far.
func (t *TrendTracker) Crosses() (golden, dead uint64) {
	return t.golden, t.dead
}

// TrendStats summarizes the SMA crossings of one trade tape.
type TrendStats struct {
	GoldenCrosses uint64
	DeadCrosses   uint64

	ShortSMA float64
	LongSMA  float64
	Ready    bool // tape was at least one long window deep
}

// ComputeTrendStats replays the execution prices of the given trades through
// a TrendTracker. Tapes shorter than the long window yield zeroed averages.
func ComputeTrendStats(trades []domain.Trade, shortWindow, longWindow int) TrendStats {
	t := NewTrendTracker(shortWindow, longWindow)
	for _, tr := range trades {
		t.Observe(tr.Price)
	}
	golden, dead := t.Crosses()
	return TrendStats{
		GoldenCrosses: golden,
		DeadCrosses:   dead,
		ShortSMA:      t.ShortSMA(),
		LongSMA:       t.LongSMA(),
		Ready:         t.Ready(),
	}
}
