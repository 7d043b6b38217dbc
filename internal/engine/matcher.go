package engine

import (
	"math"

	"quant_go/internal/domain"
)

// matcher executes aggressing orders against the book under price-time
// priority. Fills always print at the resting order's price.
type matcher struct {
	book   *Book
	trades *tradeLog
}

func newMatcher(book *Book, trades *tradeLog) *matcher {
	return &matcher{book: book, trades: trades}
}

// Process matches agg against the book and then settles its residual: a
// limit residual rests, a market residual is discarded as cancelled. It
// returns the number of trades produced.
func (m *matcher) Process(agg *Order) int {
	n := m.match(agg)
	if agg.Remaining > qtyEpsilon {
		if agg.Type == domain.OrderTypeLimit {
			m.book.Insert(agg)
		} else {
			agg.Status = domain.OrderStatusCancelled
		}
	}
	return n
}

// match walks opposite levels best-first, consuming each until agg is done,
// the book side empties, or the next level no longer crosses agg's limit.
func (m *matcher) match(agg *Order) int {
	opposite := agg.Side.Opposite()
	count := 0
	for agg.Remaining > qtyEpsilon {
		level := m.book.Best(opposite)
		if level == nil {
			break
		}
		if agg.Type == domain.OrderTypeLimit && !crosses(agg.Side, agg.Price, level.price) {
			break
		}
		count += m.consumeLevel(agg, level)
		if level.empty() {
			m.book.dropLevel(opposite, level)
		}
	}
	return count
}

// consumeLevel fills agg against the level's FIFO queue front to back.
func (m *matcher) consumeLevel(agg *Order, level *priceLevel) int {
	count := 0
	for agg.Remaining > qtyEpsilon {
		maker := level.front()
		if maker == nil {
			return count
		}
		qty := math.Min(agg.Remaining, maker.Remaining)
		makerBefore := maker.Remaining
		maker.fill(qty)
		agg.fill(qty)
		// The clamp in fill may consume slightly more than qty; reduce by
		// the maker's exact drop so the cached level total stays in sync.
		level.reduce(makerBefore - maker.Remaining)
		m.record(agg, maker, level.price, qty)
		count++
		if maker.Remaining == 0 {
			m.book.removeFilled(maker)
		}
	}
	return count
}

// record appends the trade, stamped with the aggressor's timestamp.
func (m *matcher) record(agg, maker *Order, price, qty float64) {
	buyID, sellID := agg.ID, maker.ID
	if agg.Side == domain.SideSell {
		buyID, sellID = maker.ID, agg.ID
	}
	m.trades.Append(buyID, sellID, price, qty, agg.Timestamp)
}

// crosses reports whether a limit at the given price trades against a
// resting level. Price comparisons are exact.
func crosses(side domain.Side, limit, resting float64) bool {
	if side == domain.SideBuy {
		return resting <= limit
	}
	return resting >= limit
}
