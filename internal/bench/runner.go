// Package bench measures engine submission latency outside the go test
// harness, so runs can be scripted, persisted, and compared across
// configurations.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"quant_go/internal/domain"
	"quant_go/internal/engine"
)

// Config holds the benchmark parameters.
type Config struct {
	Warmup     int // unmeasured submissions before the run
	Iterations int // measured submissions
	Preload    int // resting orders seeded on each side before timing
	Seed       int64
	BasePrice  float64
	TickSize   float64
}

// DefaultConfig returns the standard latency run.
func DefaultConfig() Config {
	return Config{
		Warmup:     1000,
		Iterations: 10000,
		Preload:    5000,
		Seed:       42,
		BasePrice:  100.0,
		TickSize:   0.01,
	}
}

// Validate checks the parameters.
func (c Config) Validate() error {
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", c.Warmup)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Preload < 0 {
		return fmt.Errorf("preload must not be negative, got %d", c.Preload)
	}
	if c.BasePrice <= 0 {
		return fmt.Errorf("base price must be positive, got %v", c.BasePrice)
	}
	if c.TickSize <= 0 {
		return fmt.Errorf("tick size must be positive, got %v", c.TickSize)
	}
	return nil
}

// Runner executes one benchmark configuration.
type Runner struct {
	cfg Config
	rng *rand.Rand
	ts  int64
}

// New validates cfg and prepares a runner.
func New(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Run seeds a book, warms up, then times each measured submission on the
// production fast path. It fails only when ctx is cancelled mid-run.
func (r *Runner) Run(ctx context.Context) (*domain.BenchmarkRun, error) {
	slog.Info("Benchmark starting",
		slog.Int("warmup", r.cfg.Warmup),
		slog.Int("iterations", r.cfg.Iterations),
		slog.Int("preload", r.cfg.Preload))

	eng := engine.New(engine.Config{
		InitialCapacityHint: r.cfg.Preload*2 + r.cfg.Warmup + r.cfg.Iterations,
		FastPath:            true,
	})

	r.seedBook(eng)

	for i := 0; i < r.cfg.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("benchmark interrupted during warmup: %w", err)
		}
		r.submitOne(eng)
	}
	eng.DrainTrades()

	tradesBefore := eng.Stats().TradesExecuted
	latencies := make([]int64, 0, r.cfg.Iterations)

	started := time.Now()
	for i := 0; i < r.cfg.Iterations; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("benchmark interrupted: %w", err)
			}
		}
		side, price, qty := r.nextOrder()
		t0 := time.Now()
		if _, err := eng.SubmitLimit(side, price, qty, r.nextTS()); err != nil {
			return nil, fmt.Errorf("benchmark submission rejected: %w", err)
		}
		latencies = append(latencies, time.Since(t0).Nanoseconds())
	}
	elapsed := time.Since(started)
	trades := eng.Stats().TradesExecuted - tradesBefore

	report := r.aggregate(latencies, elapsed, trades)
	slog.Info("Benchmark complete",
		slog.Int64("p99_ns", report.P99Ns),
		slog.Float64("orders_per_sec", report.OrdersPerSec))
	return report, nil
}

// seedBook rests alternating bids and asks around the base price so the
// measured phase works against realistic depth.
func (r *Runner) seedBook(eng *engine.Engine) {
	for i := 0; i < r.cfg.Preload; i++ {
		off := float64(i%500+1) * r.cfg.TickSize
		bid := r.cfg.BasePrice - off
		if bid <= 0 {
			bid = r.cfg.TickSize
		}
		if _, err := eng.SubmitLimit(domain.SideBuy, bid, 1.0, r.nextTS()); err != nil {
			panic(fmt.Sprintf("benchmark preload rejected: %v", err))
		}
		if _, err := eng.SubmitLimit(domain.SideSell, r.cfg.BasePrice+off, 1.0, r.nextTS()); err != nil {
			panic(fmt.Sprintf("benchmark preload rejected: %v", err))
		}
	}
}

func (r *Runner) submitOne(eng *engine.Engine) {
	side, price, qty := r.nextOrder()
	if _, err := eng.SubmitLimit(side, price, qty, r.nextTS()); err != nil {
		panic(fmt.Sprintf("benchmark submission rejected: %v", err))
	}
}

// nextOrder draws a limit order near the book: 40% priced through the
// opposite side, the rest passive.
func (r *Runner) nextOrder() (domain.Side, float64, float64) {
	side := domain.SideBuy
	if r.rng.Intn(2) == 0 {
		side = domain.SideSell
	}
	off := float64(r.rng.Intn(300)+1) * r.cfg.TickSize
	price := r.cfg.BasePrice - off
	if side == domain.SideSell {
		price = r.cfg.BasePrice + off
	}
	if r.rng.Float64() < 0.4 {
		price = 2*r.cfg.BasePrice - price
	}
	if price <= 0 {
		price = r.cfg.TickSize
	}
	qty := 0.5 + r.rng.Float64()*2
	return side, price, qty
}

func (r *Runner) nextTS() int64 {
	r.ts++
	return r.ts
}

func (r *Runner) aggregate(latencies []int64, elapsed time.Duration, trades uint64) *domain.BenchmarkRun {
	sorted := make([]int64, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, ns := range sorted {
		sum += ns
	}
	n := len(sorted)
	secs := elapsed.Seconds()

	report := &domain.BenchmarkRun{
		RunID:      uuid.NewString(),
		Warmup:     r.cfg.Warmup,
		Iterations: r.cfg.Iterations,
		Preload:    r.cfg.Preload,
		Seed:       r.cfg.Seed,
		MinNs:      sorted[0],
		MeanNs:     sum / int64(n),
		MedianNs:   sorted[n/2],
		P99Ns:      sorted[percentileIndex(n, 99)],
		MaxNs:      sorted[n-1],
		CreatedAt:  time.Now(),
	}
	if secs > 0 {
		report.OrdersPerSec = float64(n) / secs
		report.TradesPerSec = float64(trades) / secs
	}
	return report
}

// percentileIndex returns the index of the pct-th percentile in a sorted
// slice of length n, using the nearest-rank method.
func percentileIndex(n int, pct float64) int {
	idx := int(math.Ceil(pct/100*float64(n))) - 1
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
