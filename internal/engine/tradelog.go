package engine

import (
	"quant_go/internal/domain"
)

// tradeLog is the append-only record of executions. Trade ids are assigned
// here, monotonically from 1. Drain hands the retained slice to the caller
// and restarts with a fresh backing array; base tracks how many trades have
// been drained so cursor arithmetic in Since stays valid across drains.
type tradeLog struct {
	trades []domain.Trade
	nextID uint64
	base   uint64
}

func newTradeLog(capacityHint int) *tradeLog {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &tradeLog{
		trades: make([]domain.Trade, 0, capacityHint),
		nextID: 1,
	}
}

// Append records an execution and returns it with its assigned id.
func (t *tradeLog) Append(buyID, sellID uint64, price, qty float64, ts int64) domain.Trade {
	tr := domain.Trade{
		ID:          t.nextID,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Quantity:    qty,
		Timestamp:   ts,
	}
	t.nextID++
	t.trades = append(t.trades, tr)
	return tr
}

// Since returns the trades recorded after the given cursor, where the
// cursor is the id of the last trade the caller has seen (0 for none), plus
// the cursor to use on the next call. Trades already drained are gone and
// are silently skipped.
func (t *tradeLog) Since(cursor uint64) ([]domain.Trade, uint64) {
	if cursor < t.base {
		cursor = t.base
	}
	start := int(cursor - t.base)
	if start >= len(t.trades) {
		return nil, cursor
	}
	out := make([]domain.Trade, len(t.trades)-start)
	copy(out, t.trades[start:])
	return out, out[len(out)-1].ID
}

// Drain hands over every retained trade and resets the retained window. The
// returned slice is the log's old backing array; the log never touches it
// again.
func (t *tradeLog) Drain() []domain.Trade {
	out := t.trades
	t.base += uint64(len(out))
	t.trades = make([]domain.Trade, 0, cap(out))
	return out
}

// Executed returns the total number of trades ever recorded.
func (t *tradeLog) Executed() uint64 {
	return t.nextID - 1
}

// Retained returns the number of trades currently held, i.e. not drained.
func (t *tradeLog) Retained() int {
	return len(t.trades)
}
