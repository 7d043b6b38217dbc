// Package sim drives synthetic order flow against the matching engine. A
// simulated clock advances with exponential inter-arrival gaps, a price
// process walks per mode, and every accepted order, cancel, and resulting
// trade is tallied into a run report.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"quant_go/internal/analytics"
	"quant_go/internal/domain"
	"quant_go/internal/engine"
)

// Mode selects the price process.
type Mode string

const (
	ModeRandom        Mode = "random"
	ModeMeanReverting Mode = "mean_reverting"
	ModeTrending      Mode = "trending"
	ModeStress        Mode = "stress"
)

// ParseMode normalizes and validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeRandom, ModeMeanReverting, ModeTrending, ModeStress:
		return m, nil
	}
	return "", fmt.Errorf("unknown simulation mode %q", s)
}

// Exchange is the engine surface the simulator drives. Both the bare engine
// and the service facade satisfy it.
type Exchange interface {
	domain.OrderEntry
	domain.TradeSource
	domain.BookViewer
	Stats() engine.Stats
}

// Config holds the simulation parameters.
type Config struct {
	Mode           Mode
	Duration       time.Duration // simulated time span
	OrderRate      float64       // mean orders per simulated second
	BasePrice      float64
	TickSize       float64
	Volatility     float64 // relative per-event noise
	MarketOrderPct float64 // share of market orders, 0..100
	CancelPct      float64 // chance an event is a cancel instead, 0..100
	MinOrderSize   float64
	MaxOrderSize   float64
	Seed           int64
}

// DefaultConfig returns a moderate random walk workload.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeRandom,
		Duration:       10 * time.Second,
		OrderRate:      500,
		BasePrice:      100.0,
		TickSize:       0.01,
		Volatility:     0.005,
		MarketOrderPct: 20,
		CancelPct:      10,
		MinOrderSize:   0.1,
		MaxOrderSize:   10.0,
		Seed:           42,
	}
}

// Validate checks the parameters.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.OrderRate <= 0 {
		return fmt.Errorf("order rate must be positive, got %v", c.OrderRate)
	}
	if c.BasePrice <= 0 {
		return fmt.Errorf("base price must be positive, got %v", c.BasePrice)
	}
	if c.TickSize <= 0 {
		return fmt.Errorf("tick size must be positive, got %v", c.TickSize)
	}
	if c.Volatility < 0 {
		return fmt.Errorf("volatility must not be negative, got %v", c.Volatility)
	}
	if c.MarketOrderPct < 0 || c.MarketOrderPct > 100 {
		return fmt.Errorf("market order pct must be within 0..100, got %v", c.MarketOrderPct)
	}
	if c.CancelPct < 0 || c.CancelPct > 100 {
		return fmt.Errorf("cancel pct must be within 0..100, got %v", c.CancelPct)
	}
	if c.MinOrderSize <= 0 {
		return fmt.Errorf("min order size must be positive, got %v", c.MinOrderSize)
	}
	if c.MaxOrderSize < c.MinOrderSize {
		return fmt.Errorf("max order size %v below min %v", c.MaxOrderSize, c.MinOrderSize)
	}
	return nil
}

// maxTrackedOrders bounds the cancel candidate set.
const maxTrackedOrders = 4096

// Simulator generates one reproducible run. Runs are deterministic per
// seed as long as the exchange applies commands in submission order.
type Simulator struct {
	cfg   Config
	ex    Exchange
	rng   *rand.Rand
	clock int64 // simulated nanoseconds, strictly increasing
	price float64
	drift float64
	live  []uint64 // cancel candidates, unordered
}

// New validates cfg and prepares a simulator against the given exchange.
func New(cfg Config, ex Exchange) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	drift := cfg.TickSize
	if rng.Intn(2) == 0 {
		drift = -drift
	}
	return &Simulator{
		cfg:   cfg,
		ex:    ex,
		rng:   rng,
		clock: 1,
		price: cfg.BasePrice,
		drift: drift,
		live:  make([]uint64, 0, maxTrackedOrders),
	}, nil
}

// Run executes the workload until the simulated duration elapses or ctx is
// cancelled, then drains the exchange and builds the report. A cancelled
// run still reports whatever it processed.
func (s *Simulator) Run(ctx context.Context) (*domain.SimulationRun, []domain.Trade) {
	slog.Info("Simulation starting",
		slog.String("mode", string(s.cfg.Mode)),
		slog.Duration("duration", s.cfg.Duration),
		slog.Int64("seed", s.cfg.Seed))

	started := time.Now()
	startClock := s.clock
	end := startClock + s.cfg.Duration.Nanoseconds()

	var (
		submitted    uint64
		limits       uint64
		markets      uint64
		rejected     uint64
		cancelsReq   uint64
		cancelsOK    uint64
		submittedQty float64
		events       uint64
	)

loop:
	for s.clock < end {
		select {
		case <-ctx.Done():
			slog.Warn("Simulation interrupted", slog.Any("reason", ctx.Err()))
			break loop
		default:
		}

		s.advanceClock()
		events++

		if len(s.live) > 0 && s.rng.Float64()*100 < s.cfg.CancelPct {
			cancelsReq++
			if s.cancelRandom() {
				cancelsOK++
			}
			continue
		}

		s.step()
		side := domain.SideBuy
		if s.rng.Intn(2) == 0 {
			side = domain.SideSell
		}
		qty := s.nextSize()

		if s.rng.Float64()*100 < s.cfg.MarketOrderPct {
			if _, err := s.ex.SubmitMarket(side, qty, s.clock); err != nil {
				rejected++
				continue
			}
			markets++
		} else {
			price := s.nextLimitPrice(side)
			id, err := s.ex.SubmitLimit(side, price, qty, s.clock)
			if err != nil {
				rejected++
				continue
			}
			limits++
			s.remember(id)
		}
		submitted++
		submittedQty += qty

		if events%10000 == 0 {
			slog.Debug("Simulation progress",
				slog.Uint64("events", events),
				slog.Float64("price", s.price))
		}
	}

	trades := s.ex.DrainTrades()
	stats := s.ex.Stats()
	ps := analytics.ComputePriceStats(trades)
	depth := analytics.ComputeDepthStats(s.ex.Snapshot())
	trend := analytics.ComputeTrendStats(trades, analytics.DefaultShortWindow, analytics.DefaultLongWindow)

	simulated := s.clock - startClock
	simSecs := float64(simulated) / float64(time.Second)

	report := &domain.SimulationRun{
		RunID:            uuid.NewString(),
		Mode:             string(s.cfg.Mode),
		Seed:             s.cfg.Seed,
		SimulatedMS:      simulated / int64(time.Millisecond),
		ElapsedMS:        time.Since(started).Milliseconds(),
		OrdersSubmitted:  submitted,
		LimitOrders:      limits,
		MarketOrders:     markets,
		OrdersRejected:   rejected,
		CancelsRequested: cancelsReq,
		CancelsHonored:   cancelsOK,
		TradesExecuted:   stats.TradesExecuted,
		PriceMin:         ps.Min,
		PriceMax:         ps.Max,
		PriceMean:        ps.Mean,
		PriceStd:         ps.Std,
		VWAP:             ps.VWAP.String(),
		Notional:         ps.Notional.String(),
		FinalBidLevels:   depth.BidLevels,
		FinalAskLevels:   depth.AskLevels,
		FinalResting:     stats.RestingOrders,
		FinalSpread:      depth.Spread,
		FinalMid:         depth.Midpoint,
		GoldenCrosses:    trend.GoldenCrosses,
		DeadCrosses:      trend.DeadCrosses,
		CreatedAt:        time.Now(),
	}
	if submittedQty > 0 {
		// Each trade fills a buy and a sell, so executed quantity counts
		// double against the submitted total.
		report.FillRatio = 2 * ps.TotalQuantity / submittedQty
	}
	if simSecs > 0 {
		report.OrdersPerSec = float64(submitted) / simSecs
		report.TradesPerSec = float64(len(trades)) / simSecs
	}

	slog.Info("Simulation complete",
		slog.Uint64("orders", submitted),
		slog.Uint64("trades", uint64(len(trades))),
		slog.Float64("fill_ratio", report.FillRatio))

	return report, trades
}

// advanceClock moves simulated time by an exponential inter-arrival gap.
func (s *Simulator) advanceClock() {
	rate := s.cfg.OrderRate
	if s.cfg.Mode == ModeStress {
		rate *= 4
	}
	ns := int64(s.rng.ExpFloat64() / rate * float64(time.Second))
	if ns < 1 {
		ns = 1
	}
	s.clock += ns
}

// step advances the price process one event.
func (s *Simulator) step() {
	noise := s.rng.NormFloat64() * s.cfg.Volatility * s.price
	switch s.cfg.Mode {
	case ModeMeanReverting:
		s.price += 0.05*(s.cfg.BasePrice-s.price) + noise
	case ModeTrending:
		s.price += s.drift + noise
	case ModeStress:
		s.price += noise * 3
	default:
		s.price += noise
	}
	if s.price < s.cfg.TickSize {
		s.price = s.cfg.TickSize
	}
}

// nextLimitPrice places a passive order away from the current price or, 30%
// of the time, an aggressive one through it.
func (s *Simulator) nextLimitPrice(side domain.Side) float64 {
	offset := math.Exp(s.rng.NormFloat64()*0.5) * s.cfg.TickSize * 3
	aggressive := s.rng.Float64() < 0.3

	var p float64
	if (side == domain.SideBuy) != aggressive {
		p = s.price - offset
	} else {
		p = s.price + offset
	}
	p = math.Round(p/s.cfg.TickSize) * s.cfg.TickSize
	if p < s.cfg.TickSize {
		p = s.cfg.TickSize
	}
	return p
}

// nextSize draws a lognormal order size clamped to the configured range.
func (s *Simulator) nextSize() float64 {
	size := s.cfg.MinOrderSize * math.Exp(s.rng.NormFloat64()*0.8+0.8)
	if s.cfg.Mode == ModeStress {
		size *= 2
	}
	if size < s.cfg.MinOrderSize {
		size = s.cfg.MinOrderSize
	}
	if size > s.cfg.MaxOrderSize {
		size = s.cfg.MaxOrderSize
	}
	return size
}

// remember tracks an order as a cancel candidate, overwriting a random slot
// once the set is full.
func (s *Simulator) remember(id uint64) {
	if len(s.live) < maxTrackedOrders {
		s.live = append(s.live, id)
		return
	}
	s.live[s.rng.Intn(len(s.live))] = id
}

// cancelRandom cancels one tracked order. Tracked ids may have filled since
// submission, so the cancel can legitimately miss.
func (s *Simulator) cancelRandom() bool {
	idx := s.rng.Intn(len(s.live))
	id := s.live[idx]
	s.live[idx] = s.live[len(s.live)-1]
	s.live = s.live[:len(s.live)-1]
	return s.ex.Cancel(id)
}
