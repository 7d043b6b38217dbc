// Package engine implements a single-instrument limit order book with
// price-time priority matching. The Engine facade validates incoming
// orders, assigns monotonic ids, matches aggressors against the book, and
// records executions in an append-only trade log.
//
// The engine is not safe for concurrent use. Callers that need a
// concurrent surface should route commands through the service package,
// which serializes them onto a single worker.
package engine

import (
	"math"

	"quant_go/internal/domain"
)

// Config tunes an Engine instance.
type Config struct {
	// InitialCapacityHint presizes the id index and trade log for the
	// expected number of live orders. Zero means no presizing.
	InitialCapacityHint int `json:"initial_capacity_hint"`

	// FastPath skips the full-book invariant sweep after every mutation.
	// Production runs keep it on; tests turn it off to catch corruption at
	// the mutation that caused it.
	FastPath bool `json:"fast_path"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{FastPath: true}
}

// Engine is the order entry facade over the book, matcher, and trade log.
type Engine struct {
	cfg         Config
	book        *Book
	trades      *tradeLog
	matcher     *matcher
	nextOrderID uint64
}

// New creates an empty engine.
func New(cfg Config) *Engine {
	book := NewBook(cfg.InitialCapacityHint)
	trades := newTradeLog(cfg.InitialCapacityHint)
	return &Engine{
		cfg:         cfg,
		book:        book,
		trades:      trades,
		matcher:     newMatcher(book, trades),
		nextOrderID: 1,
	}
}

// SubmitLimit validates and processes a limit order, returning its assigned
// id. A rejected order consumes no id.
func (e *Engine) SubmitLimit(side domain.Side, price, qty float64, ts int64) (uint64, error) {
	if err := validateLimit(side, price, qty); err != nil {
		return 0, err
	}
	o := &Order{
		ID:        e.nextOrderID,
		Side:      side,
		Type:      domain.OrderTypeLimit,
		Price:     price,
		Quantity:  qty,
		Remaining: qty,
		Timestamp: ts,
		Status:    domain.OrderStatusNew,
	}
	e.nextOrderID++
	e.matcher.Process(o)
	e.afterMutation()
	return o.ID, nil
}

// SubmitMarket validates and processes a market order, returning its
// assigned id. Whatever the book cannot fill is discarded.
func (e *Engine) SubmitMarket(side domain.Side, qty float64, ts int64) (uint64, error) {
	if err := validateMarket(side, qty); err != nil {
		return 0, err
	}
	o := &Order{
		ID:        e.nextOrderID,
		Side:      side,
		Type:      domain.OrderTypeMarket,
		Quantity:  qty,
		Remaining: qty,
		Timestamp: ts,
		Status:    domain.OrderStatusNew,
	}
	e.nextOrderID++
	e.matcher.Process(o)
	e.afterMutation()
	return o.ID, nil
}

// Cancel removes a resting order. It reports false when the id is unknown,
// already filled, or already cancelled.
func (e *Engine) Cancel(id uint64) bool {
	o, ok := e.book.Remove(id)
	if !ok {
		return false
	}
	o.Status = domain.OrderStatusCancelled
	e.afterMutation()
	return true
}

// TradesSince returns the trades recorded after the cursor, which is the id
// of the last trade the caller has seen (0 for none), plus the next cursor.
func (e *Engine) TradesSince(cursor uint64) ([]domain.Trade, uint64) {
	return e.trades.Since(cursor)
}

// DrainTrades removes and returns every retained trade.
func (e *Engine) DrainTrades() []domain.Trade {
	return e.trades.Drain()
}

// Snapshot copies the aggregated book, both sides best-first.
func (e *Engine) Snapshot() domain.BookSnapshot {
	return e.book.Snapshot()
}

// BestBid returns the highest bid level, if any.
func (e *Engine) BestBid() (domain.PriceLevelView, bool) {
	return e.bestView(domain.SideBuy)
}

// BestAsk returns the lowest ask level, if any.
func (e *Engine) BestAsk() (domain.PriceLevelView, bool) {
	return e.bestView(domain.SideSell)
}

func (e *Engine) bestView(side domain.Side) (domain.PriceLevelView, bool) {
	level := e.book.Best(side)
	if level == nil {
		return domain.PriceLevelView{}, false
	}
	return domain.PriceLevelView{Price: level.price, Quantity: level.TotalQty()}, true
}

// EachLevel walks one side best-first, stopping early when fn returns false.
func (e *Engine) EachLevel(side domain.Side, fn func(domain.PriceLevelView) bool) {
	e.book.EachLevel(side, func(l *priceLevel) bool {
		return fn(domain.PriceLevelView{Price: l.price, Quantity: l.TotalQty()})
	})
}

// Lookup returns a copy of a resting order by id.
func (e *Engine) Lookup(id uint64) (Order, bool) {
	o, ok := e.book.Lookup(id)
	if !ok {
		return Order{}, false
	}
	cp := *o
	cp.next, cp.prev, cp.level = nil, nil, nil
	return cp, true
}

// Stats is a point-in-time summary of engine activity.
type Stats struct {
	OrdersSubmitted uint64 `json:"orders_submitted"`
	TradesExecuted  uint64 `json:"trades_executed"`
	RestingOrders   int    `json:"resting_orders"`
	BidLevels       int    `json:"bid_levels"`
	AskLevels       int    `json:"ask_levels"`
}

// Stats reports accepted submissions, executions, and book occupancy.
func (e *Engine) Stats() Stats {
	return Stats{
		OrdersSubmitted: e.nextOrderID - 1,
		TradesExecuted:  e.trades.Executed(),
		RestingOrders:   e.book.RestingOrders(),
		BidLevels:       e.book.Levels(domain.SideBuy),
		AskLevels:       e.book.Levels(domain.SideSell),
	}
}

func (e *Engine) afterMutation() {
	if !e.cfg.FastPath {
		e.verify()
	}
}

func validateLimit(side domain.Side, price, qty float64) error {
	if !side.Valid() {
		return &domain.InvalidOrderError{Field: "side", Err: domain.ErrInvalidSide}
	}
	if !finitePositive(price) {
		return &domain.InvalidOrderError{Field: "price", Err: domain.ErrInvalidPrice}
	}
	if !finitePositive(qty) {
		return &domain.InvalidOrderError{Field: "quantity", Err: domain.ErrInvalidQuantity}
	}
	return nil
}

func validateMarket(side domain.Side, qty float64) error {
	if !side.Valid() {
		return &domain.InvalidOrderError{Field: "side", Err: domain.ErrInvalidSide}
	}
	if !finitePositive(qty) {
		return &domain.InvalidOrderError{Field: "quantity", Err: domain.ErrInvalidQuantity}
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
