package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Values start from DefaultConfig,
// an optional YAML file overlays them, and environment variables override
// last.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Engine struct {
		InitialCapacityHint int  `yaml:"initial_capacity_hint"`
		FastPath            bool `yaml:"fast_path"`
	} `yaml:"engine"`

	Simulation struct {
		Mode           string  `yaml:"mode"`
		DurationSec    float64 `yaml:"duration_sec"`
		OrderRate      float64 `yaml:"order_rate"`
		BasePrice      float64 `yaml:"base_price"`
		TickSize       float64 `yaml:"tick_size"`
		Volatility     float64 `yaml:"volatility"`
		MarketOrderPct float64 `yaml:"market_order_pct"`
		CancelPct      float64 `yaml:"cancel_pct"`
		MinOrderSize   float64 `yaml:"min_order_size"`
		MaxOrderSize   float64 `yaml:"max_order_size"`
		Seed           int64   `yaml:"seed"`
	} `yaml:"simulation"`

	Benchmark struct {
		Warmup     int `yaml:"warmup"`
		Iterations int `yaml:"iterations"`
		Preload    int `yaml:"preload"`
	} `yaml:"benchmark"`
}

// DefaultConfig returns the built-in settings used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "Quant Go"
	cfg.App.Version = "0.1.0"
	cfg.Logging.Level = "info"
	cfg.Database.Path = "data/quantgo.db"
	cfg.Engine.InitialCapacityHint = 16384
	cfg.Engine.FastPath = true
	cfg.Simulation.Mode = "random"
	cfg.Simulation.DurationSec = 10
	cfg.Simulation.OrderRate = 500
	cfg.Simulation.BasePrice = 100.0
	cfg.Simulation.TickSize = 0.01
	cfg.Simulation.Volatility = 0.005
	cfg.Simulation.MarketOrderPct = 20
	cfg.Simulation.CancelPct = 10
	cfg.Simulation.MinOrderSize = 0.1
	cfg.Simulation.MaxOrderSize = 10.0
	cfg.Simulation.Seed = 42
	cfg.Benchmark.Warmup = 1000
	cfg.Benchmark.Iterations = 10000
	cfg.Benchmark.Preload = 5000
	return cfg
}

// LoadConfig reads and parses the configuration file. A missing file is not
// an error; the defaults stand.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Engine.InitialCapacityHint < 0 {
		return fmt.Errorf("engine capacity hint must not be negative")
	}

	if c.Simulation.DurationSec <= 0 {
		return fmt.Errorf("simulation duration must be positive")
	}
	if c.Simulation.OrderRate <= 0 {
		return fmt.Errorf("simulation order rate must be positive")
	}

	if c.Benchmark.Warmup < 0 {
		return fmt.Errorf("benchmark warmup must not be negative")
	}
	if c.Benchmark.Iterations <= 0 {
		return fmt.Errorf("benchmark iterations must be positive")
	}
	if c.Benchmark.Preload < 0 {
		return fmt.Errorf("benchmark preload must not be negative")
	}

	return nil
}

// overrideWithEnv applies environment overrides when present.
func overrideWithEnv(cfg *Config) {
	if level := os.Getenv("QG_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if path := os.Getenv("QG_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
}
