package engine

import (
	"quant_go/internal/domain"
)

// priceLevel is one price point on one side of the book: an intrusive FIFO
// queue of resting orders plus a cached quantity total.
//
// The cache stays exact while orders only arrive and fill, because both
// paths adjust total by the precise delta. A cancel mid-queue marks the
// cache dirty instead; the next TotalQty call rebuilds it with one walk.
type priceLevel struct {
	price float64
	side  domain.Side

	head  *Order
	tail  *Order
	count int

	total float64
	dirty bool
}

func newPriceLevel(side domain.Side, price float64) *priceLevel {
	return &priceLevel{price: price, side: side}
}

// enqueue appends o at the back of the FIFO.
func (l *priceLevel) enqueue(o *Order) {
	o.level = l
	o.prev = l.tail
	o.next = nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.count++
	if !l.dirty {
		l.total += o.Remaining
	}
}

// detachLinks splices o out of the FIFO without touching the cache.
func (l *priceLevel) detachLinks(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.detach()
}

// unlinkFilled removes a fully executed order. The fills that emptied it
// already reduced the cached total, so the cache stays clean.
func (l *priceLevel) unlinkFilled(o *Order) {
	l.detachLinks(o)
	l.count--
}

// unlink removes an order that still has remaining quantity, as a cancel
// does. The cached total no longer matches, so the level goes dirty.
func (l *priceLevel) unlink(o *Order) {
	l.detachLinks(o)
	l.count--
	l.dirty = true
}

// reduce lowers the cached total after a fill consumed qty at this level.
func (l *priceLevel) reduce(qty float64) {
	if !l.dirty {
		l.total -= qty
	}
}

// front returns the oldest resting order, nil when the level is empty.
func (l *priceLevel) front() *Order {
	return l.head
}

func (l *priceLevel) empty() bool {
	return l.count == 0
}

// TotalQty returns the aggregate remaining quantity at this level,
// rebuilding the cache first when a cancel invalidated it.
func (l *priceLevel) TotalQty() float64 {
	if l.dirty {
		l.refresh()
	}
	return l.total
}

func (l *priceLevel) refresh() {
	sum := 0.0
	for o := l.head; o != nil; o = o.next {
		sum += o.Remaining
	}
	l.total = sum
	l.dirty = false
}
