package domain

// OrderEntry is the write surface of the matching engine: submission and
// cancellation. Both the bare engine and the serialized service facade
// satisfy it.
type OrderEntry interface {
	SubmitLimit(side Side, price, qty float64, ts int64) (uint64, error)
	SubmitMarket(side Side, qty float64, ts int64) (uint64, error)
	Cancel(id uint64) bool
}

// TradeSource hands out executions from the append-only trade log. The
// cursor returned by TradesSince resumes iteration without re-reading.
type TradeSource interface {
	TradesSince(cursor uint64) ([]Trade, uint64)
	DrainTrades() []Trade
}

// BookViewer exposes the aggregated read side of the book.
type BookViewer interface {
	Snapshot() BookSnapshot
}
