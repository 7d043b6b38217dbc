package infra

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if cfg.App.Name != "Quant Go" {
		t.Errorf("Expected default app name, got %s", cfg.App.Name)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default level info, got %s", cfg.Logging.Level)
	}
	if !cfg.Engine.FastPath {
		t.Error("Expected fast path on by default")
	}
	if cfg.Simulation.Mode != "random" || cfg.Simulation.Seed != 42 {
		t.Errorf("Expected default simulation settings, got %+v", cfg.Simulation)
	}
}

func TestLoadConfig_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
logging:
  level: debug
engine:
  fast_path: false
simulation:
  mode: stress
  order_rate: 2000
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Engine.FastPath {
		t.Error("Expected fast path disabled by the file")
	}
	if cfg.Simulation.Mode != "stress" || cfg.Simulation.OrderRate != 2000 {
		t.Errorf("Expected overlaid simulation settings, got %+v", cfg.Simulation)
	}
	// Untouched keys keep their defaults.
	if cfg.Simulation.BasePrice != 100.0 {
		t.Errorf("Expected default base price, got %v", cfg.Simulation.BasePrice)
	}
	if cfg.Database.Path != "data/quantgo.db" {
		t.Errorf("Expected default database path, got %s", cfg.Database.Path)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("QG_LOG_LEVEL", "warn")
	t.Setenv("QG_DB_PATH", "/tmp/override.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected env level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Expected env database path, got %s", cfg.Database.Path)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging: ["), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected malformed YAML to fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"negative capacity hint", func(c *Config) { c.Engine.InitialCapacityHint = -1 }},
		{"zero sim duration", func(c *Config) { c.Simulation.DurationSec = 0 }},
		{"zero sim rate", func(c *Config) { c.Simulation.OrderRate = 0 }},
		{"zero bench iterations", func(c *Config) { c.Benchmark.Iterations = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}
