package engine

import (
	"fmt"

	"github.com/igrmk/treemap/v2"

	"quant_go/internal/domain"
)

// Book holds both sides of the order book. Each side is a treemap from the
// order-preserving level key to its price level, so an ascending iteration
// always visits levels best-first. The id index gives O(1) lookups and
// cancels.
type Book struct {
	bids  *treemap.TreeMap[uint64, *priceLevel]
	asks  *treemap.TreeMap[uint64, *priceLevel]
	index map[uint64]*Order
}

// NewBook creates an empty book. capacityHint presizes the id index; values
// at or below zero fall back to the map default.
func NewBook(capacityHint int) *Book {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Book{
		bids:  treemap.New[uint64, *priceLevel](),
		asks:  treemap.New[uint64, *priceLevel](),
		index: make(map[uint64]*Order, capacityHint),
	}
}

func (b *Book) side(s domain.Side) *treemap.TreeMap[uint64, *priceLevel] {
	if s == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// Insert rests o at its price level, creating the level if needed.
func (b *Book) Insert(o *Order) {
	if _, ok := b.index[o.ID]; ok {
		panic(fmt.Sprintf("INVARIANT_VIOLATION: duplicate order id %d in book", o.ID))
	}
	tree := b.side(o.Side)
	key := levelKey(o.Side, o.Price)
	level, ok := tree.Get(key)
	if !ok {
		level = newPriceLevel(o.Side, o.Price)
		tree.Set(key, level)
	}
	level.enqueue(o)
	b.index[o.ID] = o
}

// Remove takes the order with the given id out of the book, dropping its
// level when that leaves the level empty. The returned bool reports whether
// the id was resting.
func (b *Book) Remove(id uint64) (*Order, bool) {
	o, ok := b.index[id]
	if !ok {
		return nil, false
	}
	level := o.level
	level.unlink(o)
	delete(b.index, id)
	if level.empty() {
		b.dropLevel(o.Side, level)
	}
	return o, true
}

// removeFilled drops a maker the matcher just executed to zero. The caller
// owns the level lifecycle: the match loop drops the level once it has
// consumed everything at the price.
func (b *Book) removeFilled(o *Order) {
	o.level.unlinkFilled(o)
	delete(b.index, o.ID)
}

func (b *Book) dropLevel(side domain.Side, level *priceLevel) {
	if !level.empty() {
		panic(fmt.Sprintf("INVARIANT_VIOLATION: dropping non-empty level %.8f with %d orders", level.price, level.count))
	}
	b.side(side).Del(levelKey(side, level.price))
}

// Best returns the top level on the given side, nil when the side is empty.
func (b *Book) Best(side domain.Side) *priceLevel {
	it := b.side(side).Iterator()
	if !it.Valid() {
		return nil
	}
	return it.Value()
}

// EachLevel walks the side best-first, stopping early when fn returns false.
func (b *Book) EachLevel(side domain.Side, fn func(*priceLevel) bool) {
	for it := b.side(side).Iterator(); it.Valid(); it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}

// Lookup finds a resting order by id.
func (b *Book) Lookup(id uint64) (*Order, bool) {
	o, ok := b.index[id]
	return o, ok
}

// RestingOrders returns the number of orders currently in the book.
func (b *Book) RestingOrders() int {
	return len(b.index)
}

// Levels returns the number of populated price levels on a side.
func (b *Book) Levels(side domain.Side) int {
	return b.side(side).Len()
}

// Snapshot copies the aggregated book state, both sides best-first.
func (b *Book) Snapshot() domain.BookSnapshot {
	snap := domain.BookSnapshot{
		Bids: make([]domain.PriceLevelView, 0, b.bids.Len()),
		Asks: make([]domain.PriceLevelView, 0, b.asks.Len()),
	}
	b.EachLevel(domain.SideBuy, func(l *priceLevel) bool {
		snap.Bids = append(snap.Bids, domain.PriceLevelView{Price: l.price, Quantity: l.TotalQty()})
		return true
	})
	b.EachLevel(domain.SideSell, func(l *priceLevel) bool {
		snap.Asks = append(snap.Asks, domain.PriceLevelView{Price: l.price, Quantity: l.TotalQty()})
		return true
	})
	return snap
}
