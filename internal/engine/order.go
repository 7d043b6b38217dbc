package engine

import (
	"quant_go/internal/domain"
)

// qtyEpsilon is the tolerance under which a remaining quantity counts as
// fully consumed. It absorbs float64 accumulation noise on quantities.
// Prices are never compared with a tolerance.
const qtyEpsilon = 1e-9

// Order is a live order inside the book. The unexported pointers thread it
// into its price level's FIFO queue; they are only meaningful while the
// order rests.
type Order struct {
	ID        uint64           `json:"order_id"`
	Side      domain.Side      `json:"side"`
	Type      domain.OrderType `json:"type"`
	Price     float64          `json:"price"` // 0 for market orders
	Quantity  float64          `json:"quantity"`
	Remaining float64          `json:"remaining"`
	Timestamp int64            `json:"timestamp"`

	Status domain.OrderStatus `json:"status"`

	next  *Order
	prev  *Order
	level *priceLevel
}

// Filled reports whether nothing remains to execute.
func (o *Order) Filled() bool {
	return o.Remaining == 0
}

// IsOpen reports whether the order can still trade.
func (o *Order) IsOpen() bool {
	return o.Status.IsOpen()
}

// fill consumes qty from the order and updates its status. A residual at or
// below qtyEpsilon is clamped to exactly zero so downstream code can compare
// against 0 directly.
func (o *Order) fill(qty float64) {
	o.Remaining -= qty
	if o.Remaining <= qtyEpsilon {
		o.Remaining = 0
		o.Status = domain.OrderStatusFilled
	} else {
		o.Status = domain.OrderStatusPartiallyFilled
	}
}

// detach clears the queue linkage after the order leaves its level.
func (o *Order) detach() {
	o.next = nil
	o.prev = nil
	o.level = nil
}
