package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"

	"quant_go/internal/app"
	"quant_go/internal/bench"
	"quant_go/internal/domain"
	"quant_go/internal/engine"
	"quant_go/internal/infra"
	"quant_go/internal/service"
	"quant_go/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "simulate":
		runSimulate(os.Args[2:])
	case "benchmark":
		runBenchmark(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Quant Go - single instrument matching engine

Usage:
  app simulate  [flags]   run a synthetic workload against the engine
  app benchmark [flags]   measure submission latency
  app history   [flags]   show persisted runs
  app help                print this message

Run 'app <command> -h' for command flags.
`)
}

func runSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	configPath := fs.String("config", "configs/config.yaml", "configuration file")
	mode := fs.String("mode", "", "price process: random | mean_reverting | trending | stress")
	duration := fs.Duration("duration", 0, "simulated time span (0 uses config)")
	rate := fs.Float64("rate", 0, "orders per simulated second (0 uses config)")
	seed := fs.Int64("seed", 0, "rng seed (0 uses config)")
	marketPct := fs.Float64("market-pct", -1, "market order percentage (negative uses config)")
	cancelPct := fs.Float64("cancel-pct", -1, "cancel percentage (negative uses config)")
	depth := fs.Int("depth", 10, "book levels to render per side")
	out := fs.String("out", "", "write the run report JSON to a file")
	tradesOut := fs.String("trades-out", "", "write drained trades as JSON lines to a file")
	archive := fs.Bool("archive-trades", false, "persist drained trades with the run")
	cpuProfile := fs.String("cpuprofile", "", "write cpu profile to file")
	memProfile := fs.String("memprofile", "", "write heap profile to file")
	fs.Parse(args)

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	simCfg := simConfigFrom(cfg)
	if *mode != "" {
		m, err := sim.ParseMode(*mode)
		if err != nil {
			slog.Error("❌ Invalid mode", slog.Any("error", err))
			os.Exit(1)
		}
		simCfg.Mode = m
	}
	if *duration > 0 {
		simCfg.Duration = *duration
	}
	if *rate > 0 {
		simCfg.OrderRate = *rate
	}
	if *seed != 0 {
		simCfg.Seed = *seed
	}
	if *marketPct >= 0 {
		simCfg.MarketOrderPct = *marketPct
	}
	if *cancelPct >= 0 {
		simCfg.CancelPct = *cancelPct
	}

	stopProfiles := startProfiles(*cpuProfile, *memProfile)
	defer stopProfiles()

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Engine + Service (The Hotpath Loop). The worker stays on its own
	// context: after an interrupt it still serves the drain and snapshot
	// reads that build the report.
	eng := engine.New(engine.Config{
		InitialCapacityHint: cfg.Engine.InitialCapacityHint,
		FastPath:            cfg.Engine.FastPath,
	})
	svc := service.New(eng, 1024)
	go svc.Run(context.Background())
	slog.Info("✅ Trading service (hotpath) started")

	simulator, err := sim.New(simCfg, svc)
	if err != nil {
		slog.Error("❌ Invalid simulation settings", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("🎲 Simulation running. Press Ctrl+C to stop early.")
	report, trades := simulator.Run(ctx)

	renderBook(svc.Snapshot(), *depth)
	renderSimulation(report)

	if *out != "" {
		if err := writeJSON(*out, report); err != nil {
			slog.Error("❌ Failed to write report", slog.Any("error", err))
		} else {
			slog.Info("💾 Report written", slog.String("file", *out))
		}
	}
	if *tradesOut != "" {
		if err := writeTradesJSONL(*tradesOut, trades); err != nil {
			slog.Error("❌ Failed to write trades", slog.Any("error", err))
		} else {
			slog.Info("💾 Trades written", slog.String("file", *tradesOut), slog.Int("count", len(trades)))
		}
	}

	if err := bootstrap.Storage.SaveSimulationRun(report); err != nil {
		slog.Error("❌ Failed to persist run", slog.Any("error", err))
	} else {
		slog.Info("💾 Run persisted", slog.String("run_id", report.RunID))
	}
	if *archive {
		if err := bootstrap.Storage.ArchiveTrades(report.RunID, trades); err != nil {
			slog.Error("❌ Failed to archive trades", slog.Any("error", err))
		} else {
			slog.Info("💾 Trades archived", slog.Int("count", len(trades)))
		}
	}
}

func runBenchmark(args []string) {
	fs := flag.NewFlagSet("benchmark", flag.ExitOnError)
	configPath := fs.String("config", "configs/config.yaml", "configuration file")
	warmup := fs.Int("warmup", 0, "unmeasured submissions (0 uses config)")
	iterations := fs.Int("iterations", 0, "measured submissions (0 uses config)")
	preload := fs.Int("preload", 0, "orders seeded per side (0 uses config)")
	seed := fs.Int64("seed", 0, "rng seed (0 uses default)")
	out := fs.String("out", "", "write the report JSON to a file")
	cpuProfile := fs.String("cpuprofile", "", "write cpu profile to file")
	memProfile := fs.String("memprofile", "", "write heap profile to file")
	fs.Parse(args)

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	benchCfg := bench.DefaultConfig()
	benchCfg.Warmup = cfg.Benchmark.Warmup
	benchCfg.Iterations = cfg.Benchmark.Iterations
	benchCfg.Preload = cfg.Benchmark.Preload
	benchCfg.BasePrice = cfg.Simulation.BasePrice
	benchCfg.TickSize = cfg.Simulation.TickSize
	if *warmup > 0 {
		benchCfg.Warmup = *warmup
	}
	if *iterations > 0 {
		benchCfg.Iterations = *iterations
	}
	if *preload > 0 {
		benchCfg.Preload = *preload
	}
	if *seed != 0 {
		benchCfg.Seed = *seed
	}

	stopProfiles := startProfiles(*cpuProfile, *memProfile)
	defer stopProfiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := bench.New(benchCfg)
	if err != nil {
		slog.Error("❌ Invalid benchmark settings", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("⏱️ Benchmark running")
	report, err := runner.Run(ctx)
	if err != nil {
		slog.Error("❌ Benchmark failed", slog.Any("error", err))
		os.Exit(1)
	}

	renderBenchmark(report)

	if *out != "" {
		if err := writeJSON(*out, report); err != nil {
			slog.Error("❌ Failed to write report", slog.Any("error", err))
		} else {
			slog.Info("💾 Report written", slog.String("file", *out))
		}
	}
	if err := bootstrap.Storage.SaveBenchmarkRun(report); err != nil {
		slog.Error("❌ Failed to persist run", slog.Any("error", err))
	} else {
		slog.Info("💾 Run persisted", slog.String("run_id", report.RunID))
	}
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "configs/config.yaml", "configuration file")
	limit := fs.Int("limit", 10, "runs to show per table")
	fs.Parse(args)

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	simRuns, err := bootstrap.Storage.RecentSimulationRuns(*limit)
	if err != nil {
		slog.Error("❌ Failed to load simulation history", slog.Any("error", err))
		os.Exit(1)
	}
	renderSimHistory(simRuns)

	benchRuns, err := bootstrap.Storage.RecentBenchmarkRuns(*limit)
	if err != nil {
		slog.Error("❌ Failed to load benchmark history", slog.Any("error", err))
		os.Exit(1)
	}
	renderBenchHistory(benchRuns)
}

func simConfigFrom(cfg *infra.Config) sim.Config {
	return sim.Config{
		Mode:           sim.Mode(cfg.Simulation.Mode),
		Duration:       time.Duration(cfg.Simulation.DurationSec * float64(time.Second)),
		OrderRate:      cfg.Simulation.OrderRate,
		BasePrice:      cfg.Simulation.BasePrice,
		TickSize:       cfg.Simulation.TickSize,
		Volatility:     cfg.Simulation.Volatility,
		MarketOrderPct: cfg.Simulation.MarketOrderPct,
		CancelPct:      cfg.Simulation.CancelPct,
		MinOrderSize:   cfg.Simulation.MinOrderSize,
		MaxOrderSize:   cfg.Simulation.MaxOrderSize,
		Seed:           cfg.Simulation.Seed,
	}
}

func renderBook(snap domain.BookSnapshot, depth int) {
	if snap.Empty() {
		fmt.Println("book is empty")
		return
	}
	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader([]string{"bid qty", "bid", "ask", "ask qty"})
	for i := 0; i < depth; i++ {
		var row [4]string
		if i < len(snap.Bids) {
			row[0] = fmt.Sprintf("%.4f", snap.Bids[i].Quantity)
			row[1] = fmt.Sprintf("%.4f", snap.Bids[i].Price)
		}
		if i < len(snap.Asks) {
			row[2] = fmt.Sprintf("%.4f", snap.Asks[i].Price)
			row[3] = fmt.Sprintf("%.4f", snap.Asks[i].Quantity)
		}
		if row[1] == "" && row[2] == "" {
			break
		}
		writer.Append(row[:])
	}
	writer.SetCaption(true, fmt.Sprintf("book top %d (%d bid / %d ask levels)", depth, len(snap.Bids), len(snap.Asks)))
	writer.Render()
}

func renderSimulation(report *domain.SimulationRun) {
	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader([]string{"metric", "value"})
	writer.Append([]string{"run id", report.RunID})
	writer.Append([]string{"mode", report.Mode})
	writer.Append([]string{"seed", strconv.FormatInt(report.Seed, 10)})
	writer.Append([]string{"simulated", fmt.Sprintf("%d ms", report.SimulatedMS)})
	writer.Append([]string{"elapsed", fmt.Sprintf("%d ms", report.ElapsedMS)})
	writer.Append([]string{"orders", strconv.FormatUint(report.OrdersSubmitted, 10)})
	writer.Append([]string{"limit orders", strconv.FormatUint(report.LimitOrders, 10)})
	writer.Append([]string{"market orders", strconv.FormatUint(report.MarketOrders, 10)})
	writer.Append([]string{"rejected", strconv.FormatUint(report.OrdersRejected, 10)})
	writer.Append([]string{"cancels", fmt.Sprintf("%d/%d", report.CancelsHonored, report.CancelsRequested)})
	writer.Append([]string{"trades", strconv.FormatUint(report.TradesExecuted, 10)})
	writer.Append([]string{"fill ratio", fmt.Sprintf("%.4f", report.FillRatio)})
	writer.Append([]string{"orders/sec", fmt.Sprintf("%.0f", report.OrdersPerSec)})
	writer.Append([]string{"trades/sec", fmt.Sprintf("%.0f", report.TradesPerSec)})
	writer.Append([]string{"price min/max", fmt.Sprintf("%.4f / %.4f", report.PriceMin, report.PriceMax)})
	writer.Append([]string{"price mean/std", fmt.Sprintf("%.4f / %.4f", report.PriceMean, report.PriceStd)})
	writer.Append([]string{"vwap", report.VWAP})
	writer.Append([]string{"notional", report.Notional})
	writer.Append([]string{"sma crosses", fmt.Sprintf("%d golden / %d dead", report.GoldenCrosses, report.DeadCrosses)})
	writer.Append([]string{"final resting", strconv.Itoa(report.FinalResting)})
	if report.FinalSpread > 0 {
		writer.Append([]string{"final spread/mid", fmt.Sprintf("%.4f / %.4f", report.FinalSpread, report.FinalMid)})
	}
	writer.SetCaption(true, "simulation summary")
	writer.Render()
}

func renderBenchmark(report *domain.BenchmarkRun) {
	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader([]string{"metric", "value"})
	writer.Append([]string{"run id", report.RunID})
	writer.Append([]string{"warmup", strconv.Itoa(report.Warmup)})
	writer.Append([]string{"iterations", strconv.Itoa(report.Iterations)})
	writer.Append([]string{"preload", strconv.Itoa(report.Preload)})
	writer.Append([]string{"min", time.Duration(report.MinNs).String()})
	writer.Append([]string{"mean", time.Duration(report.MeanNs).String()})
	writer.Append([]string{"median", time.Duration(report.MedianNs).String()})
	writer.Append([]string{"p99", time.Duration(report.P99Ns).String()})
	writer.Append([]string{"max", time.Duration(report.MaxNs).String()})
	writer.Append([]string{"orders/sec", fmt.Sprintf("%.0f", report.OrdersPerSec)})
	writer.Append([]string{"trades/sec", fmt.Sprintf("%.0f", report.TradesPerSec)})
	writer.SetCaption(true, "submission latency")
	writer.Render()
}

func renderSimHistory(runs []domain.SimulationRun) {
	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader([]string{"created", "run id", "mode", "orders", "trades", "fill", "orders/sec"})
	for _, r := range runs {
		writer.Append([]string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			shortID(r.RunID),
			r.Mode,
			strconv.FormatUint(r.OrdersSubmitted, 10),
			strconv.FormatUint(r.TradesExecuted, 10),
			fmt.Sprintf("%.3f", r.FillRatio),
			fmt.Sprintf("%.0f", r.OrdersPerSec),
		})
	}
	writer.SetCaption(true, "simulation runs")
	writer.Render()
}

func renderBenchHistory(runs []domain.BenchmarkRun) {
	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader([]string{"created", "run id", "iterations", "median", "p99", "orders/sec"})
	for _, r := range runs {
		writer.Append([]string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			shortID(r.RunID),
			strconv.Itoa(r.Iterations),
			time.Duration(r.MedianNs).String(),
			time.Duration(r.P99Ns).String(),
			fmt.Sprintf("%.0f", r.OrdersPerSec),
		})
	}
	writer.SetCaption(true, "benchmark runs")
	writer.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// startProfiles begins CPU profiling when requested and returns a stop
// function that also writes the heap profile.
func startProfiles(cpuPath, memPath string) func() {
	if cpuPath == "" {
		return func() { writeHeapProfile(memPath) }
	}

	f, err := os.Create(cpuPath)
	if err != nil {
		slog.Error("Failed to create cpu profile", slog.Any("error", err))
		return func() { writeHeapProfile(memPath) }
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		slog.Error("Failed to start cpu profile", slog.Any("error", err))
		f.Close()
		return func() { writeHeapProfile(memPath) }
	}
	slog.Info("🕵️ CPU profiling enabled", slog.String("file", cpuPath))
	return func() {
		pprof.StopCPUProfile()
		f.Close()
		writeHeapProfile(memPath)
	}
}

func writeHeapProfile(path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		slog.Error("Failed to create heap profile", slog.Any("error", err))
		return
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		slog.Error("Failed to write heap profile", slog.Any("error", err))
	}
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func writeTradesJSONL(path string, trades []domain.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range trades {
		if err := enc.Encode(&trades[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}
