package domain

// Trade is one immutable execution record. The buy and sell order ids point
// at the two matched orders and the timestamp is the aggressor's. Trade ids
// are assigned monotonically from 1 and never reused.
type Trade struct {
	ID          uint64  `json:"trade_id"`
	BuyOrderID  uint64  `json:"buy_order_id"`
	SellOrderID uint64  `json:"sell_order_id"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Timestamp   int64   `json:"timestamp"`
}

// Notional returns the traded value at the execution price.
func (t Trade) Notional() float64 {
	return t.Price * t.Quantity
}
