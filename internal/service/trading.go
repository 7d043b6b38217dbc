// Package service puts a concurrency-safe command surface in front of the
// matching engine. Every caller goroutine enqueues sequenced commands onto
// one inbox; a single worker goroutine applies them in order, so the engine
// itself never sees concurrent access.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"quant_go/internal/domain"
	"quant_go/internal/engine"
	"quant_go/internal/infra"
)

type commandKind uint8

const (
	cmdSubmitLimit commandKind = iota + 1
	cmdSubmitMarket
	cmdCancel
	cmdTradesSince
	cmdDrainTrades
	cmdSnapshot
	cmdStats
)

// command carries one engine operation through the inbox. Fields beyond
// kind and seq are populated per kind; resp delivers the result back to
// the enqueuing goroutine.
type command struct {
	kind   commandKind
	seq    uint64
	side   domain.Side
	price  float64
	qty    float64
	ts     int64
	id     uint64
	cursor uint64

	resp chan result
}

type result struct {
	orderID  uint64
	ok       bool
	err      error
	trades   []domain.Trade
	cursor   uint64
	snapshot domain.BookSnapshot
	stats    engine.Stats
}

// Service is the single-threaded command processor over the engine.
type Service struct {
	inbox chan *command
	eng   *engine.Engine

	// mu serializes sequence assignment with the inbox send, so the
	// worker always receives seq values in order.
	mu      sync.Mutex
	lastSeq uint64

	// nextSeq is owned by the worker goroutine.
	nextSeq uint64
}

// New creates a service over the given engine. inboxSize at or below zero
// falls back to 1024.
func New(eng *engine.Engine, inboxSize int) *Service {
	if inboxSize <= 0 {
		inboxSize = 1024
	}
	return &Service{
		inbox:   make(chan *command, inboxSize),
		eng:     eng,
		nextSeq: 1,
	}
}

// Run starts the command loop. This MUST be run in a single goroutine.
func (s *Service) Run(ctx context.Context) {
	slog.Info("Trading service started (single-threaded hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			// Halt after dump.
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Trading service stopping...")
			return
		case c := <-s.inbox:
			s.process(c)
		}
	}
}

func (s *Service) process(c *command) {
	// 1. Sequence Gap Check (Halt Policy)
	if c.seq != s.nextSeq {
		panic(fmt.Sprintf("SEQUENCE_GAP_DETECTED: expected %d, got %d", s.nextSeq, c.seq))
	}

	// 2. Logic Dispatch
	start := time.Now()
	var res result
	switch c.kind {
	case cmdSubmitLimit:
		before := s.eng.Stats().TradesExecuted
		res.orderID, res.err = s.eng.SubmitLimit(c.side, c.price, c.qty, c.ts)
		s.recordSubmit(res.err, before)
	case cmdSubmitMarket:
		before := s.eng.Stats().TradesExecuted
		res.orderID, res.err = s.eng.SubmitMarket(c.side, c.qty, c.ts)
		s.recordSubmit(res.err, before)
	case cmdCancel:
		res.ok = s.eng.Cancel(c.id)
		infra.GlobalMetrics.RecordCancel(res.ok)
	case cmdTradesSince:
		res.trades, res.cursor = s.eng.TradesSince(c.cursor)
	case cmdDrainTrades:
		res.trades = s.eng.DrainTrades()
	case cmdSnapshot:
		res.snapshot = s.eng.Snapshot()
	case cmdStats:
		res.stats = s.eng.Stats()
	default:
		panic(fmt.Sprintf("UNKNOWN_COMMAND: kind %d", c.kind))
	}
	infra.GlobalMetrics.RecordCommand(time.Since(start).Nanoseconds())

	// 3. Increment Sequence
	s.nextSeq++

	c.resp <- res
}

func (s *Service) recordSubmit(err error, tradesBefore uint64) {
	if err != nil {
		infra.GlobalMetrics.RecordRejected()
		return
	}
	infra.GlobalMetrics.RecordSubmitted()
	stats := s.eng.Stats()
	infra.GlobalMetrics.RecordTrades(stats.TradesExecuted - tradesBefore)
	infra.GlobalMetrics.ObserveResting(int64(stats.RestingOrders))
}

// enqueue assigns the next sequence number, sends the command, and blocks
// until the worker responds. The command returns to the pool afterwards.
func (s *Service) enqueue(c *command) result {
	s.mu.Lock()
	s.lastSeq++
	c.seq = s.lastSeq
	s.inbox <- c
	s.mu.Unlock()

	res := <-c.resp
	releaseCommand(c)
	return res
}

// SubmitLimit routes a limit order through the worker.
func (s *Service) SubmitLimit(side domain.Side, price, qty float64, ts int64) (uint64, error) {
	c := acquireCommand()
	c.kind = cmdSubmitLimit
	c.side = side
	c.price = price
	c.qty = qty
	c.ts = ts
	res := s.enqueue(c)
	return res.orderID, res.err
}

// SubmitMarket routes a market order through the worker.
func (s *Service) SubmitMarket(side domain.Side, qty float64, ts int64) (uint64, error) {
	c := acquireCommand()
	c.kind = cmdSubmitMarket
	c.side = side
	c.qty = qty
	c.ts = ts
	res := s.enqueue(c)
	return res.orderID, res.err
}

// Cancel routes a cancel through the worker.
func (s *Service) Cancel(id uint64) bool {
	c := acquireCommand()
	c.kind = cmdCancel
	c.id = id
	return s.enqueue(c).ok
}

// TradesSince returns trades recorded after the cursor plus the next cursor.
func (s *Service) TradesSince(cursor uint64) ([]domain.Trade, uint64) {
	c := acquireCommand()
	c.kind = cmdTradesSince
	c.cursor = cursor
	res := s.enqueue(c)
	return res.trades, res.cursor
}

// DrainTrades removes and returns every retained trade.
func (s *Service) DrainTrades() []domain.Trade {
	c := acquireCommand()
	c.kind = cmdDrainTrades
	return s.enqueue(c).trades
}

// Snapshot returns the aggregated book.
func (s *Service) Snapshot() domain.BookSnapshot {
	c := acquireCommand()
	c.kind = cmdSnapshot
	return s.enqueue(c).snapshot
}

// Stats returns engine counters and book occupancy.
func (s *Service) Stats() engine.Stats {
	c := acquireCommand()
	c.kind = cmdStats
	return s.enqueue(c).stats
}

// DumpState writes the engine's visible state to a file (for post-mortem).
func (s *Service) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		NextSeq  uint64              `json:"next_seq"`
		Stats    engine.Stats        `json:"stats"`
		Snapshot domain.BookSnapshot `json:"snapshot"`
	}{
		NextSeq:  s.nextSeq,
		Stats:    s.eng.Stats(),
		Snapshot: s.eng.Snapshot(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
