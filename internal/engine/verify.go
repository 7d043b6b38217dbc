package engine

import (
	"fmt"
	"math"

	"quant_go/internal/domain"
)

// verify sweeps the whole book and panics on the first structural
// inconsistency it finds. It runs after every mutation when FastPath is
// off, so a corruption panic points at the operation that introduced it.
func (e *Engine) verify() {
	seen := make(map[uint64]*Order, len(e.book.index))
	e.verifySide(domain.SideBuy, seen)
	e.verifySide(domain.SideSell, seen)

	if len(seen) != len(e.book.index) {
		panic(fmt.Sprintf("INVARIANT_VIOLATION: index holds %d orders, levels hold %d", len(e.book.index), len(seen)))
	}

	bid := e.book.Best(domain.SideBuy)
	ask := e.book.Best(domain.SideSell)
	if bid != nil && ask != nil && bid.price >= ask.price {
		panic(fmt.Sprintf("INVARIANT_VIOLATION: crossed book, bid %.8f >= ask %.8f", bid.price, ask.price))
	}
}

func (e *Engine) verifySide(side domain.Side, seen map[uint64]*Order) {
	var prevKey uint64
	first := true
	for it := e.book.side(side).Iterator(); it.Valid(); it.Next() {
		key, level := it.Key(), it.Value()
		if !first && key <= prevKey {
			panic(fmt.Sprintf("INVARIANT_VIOLATION: %s level keys out of order", side))
		}
		prevKey, first = key, false

		if key != levelKey(side, level.price) {
			panic(fmt.Sprintf("INVARIANT_VIOLATION: %s level %.8f stored under wrong key", side, level.price))
		}
		if level.side != side {
			panic(fmt.Sprintf("INVARIANT_VIOLATION: level %.8f carries side %s on the %s tree", level.price, level.side, side))
		}
		if level.empty() || level.head == nil {
			panic(fmt.Sprintf("INVARIANT_VIOLATION: empty %s level %.8f left in tree", side, level.price))
		}

		count := 0
		sum := 0.0
		for o := level.head; o != nil; o = o.next {
			if o.Side != side {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d side %s queued on %s level", o.ID, o.Side, side))
			}
			if o.Price != level.price {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d price %.8f queued on level %.8f", o.ID, o.Price, level.price))
			}
			if o.Remaining <= 0 {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d resting with remaining %.12f", o.ID, o.Remaining))
			}
			if !o.IsOpen() {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d resting with status %s", o.ID, o.Status))
			}
			if o.level != level {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d level pointer mismatch", o.ID))
			}
			indexed, ok := e.book.index[o.ID]
			if !ok || indexed != o {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d missing from index", o.ID))
			}
			if _, dup := seen[o.ID]; dup {
				panic(fmt.Sprintf("INVARIANT_VIOLATION: order %d appears in two queues", o.ID))
			}
			seen[o.ID] = o
			count++
			sum += o.Remaining
		}

		if count != level.count {
			panic(fmt.Sprintf("INVARIANT_VIOLATION: level %.8f count %d, queue holds %d", level.price, level.count, count))
		}
		if !level.dirty && math.Abs(level.total-sum) > qtyEpsilon*float64(count+1) {
			panic(fmt.Sprintf("INVARIANT_VIOLATION: level %.8f cached total %.12f, queue sums to %.12f", level.price, level.total, sum))
		}
	}
}
