package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/optimizer"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
data:
  symbol: "ETH-USD"
  start: "2022-06-01"
  end: "2022-12-31"
  interval: "1d"

optimizer:
  max_iterations: 200
  bounds:
    short:
      min: 10
      max: 40

report:
  type: localfs
  path: "/tmp/tristrat/reports"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.Symbol != "ETH-USD" {
		t.Errorf("expected ETH-USD, got %s", cfg.Data.Symbol)
	}
	if cfg.Optimizer.MaxIterations != 200 {
		t.Errorf("expected max_iterations 200, got %d", cfg.Optimizer.MaxIterations)
	}
	if cfg.Optimizer.Bounds.Short.Min != 10 {
		t.Errorf("expected short.min 10, got %g", cfg.Optimizer.Bounds.Short.Min)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Data.Interval != "1d" {
		t.Errorf("expected interval 1d, got %s", cfg.Data.Interval)
	}
	if cfg.Optimizer.Bounds.Long.Max != 200 {
		t.Errorf("expected default long.max 200, got %g", cfg.Optimizer.Bounds.Long.Max)
	}
	if cfg.Backtest.InitialCapital != 10_000 {
		t.Errorf("expected default initial_capital 10000, got %g", cfg.Backtest.InitialCapital)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Data.Symbol != "BTC-USD" {
		t.Errorf("expected default symbol BTC-USD, got %s", cfg.Data.Symbol)
	}
	if cfg.Data.Interval != "1h" {
		t.Errorf("expected default interval 1h, got %s", cfg.Data.Interval)
	}
	if got := cfg.Bounds(); got != optimizer.DefaultBounds() {
		t.Errorf("default bounds mismatch: %+v", got)
	}
	if cfg.Backtest.UnitSize != 1_000 {
		t.Errorf("expected default unit_size 1000, got %g", cfg.Backtest.UnitSize)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate cleanly: %v", err)
	}
}

func TestDataConfig_Range(t *testing.T) {
	start, end, err := Defaults().Data.Range()
	if err != nil {
		t.Fatal(err)
	}
	if start.Year() != 2023 || end.Year() != 2024 {
		t.Errorf("unexpected range %v - %v", start, end)
	}

	bad := DataConfig{Start: "not-a-date", End: "2024-01-01"}
	if _, _, err := bad.Range(); !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Defaults() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing symbol",
			mutate:  func(c *Config) { c.Data.Symbol = "" },
			wantErr: true,
		},
		{
			name:    "end before start",
			mutate:  func(c *Config) { c.Data.End = "2022-01-01" },
			wantErr: true,
		},
		{
			name:    "wrong start dimension",
			mutate:  func(c *Config) { c.Optimizer.Start = []float64{30, 90, 20} },
			wantErr: true,
		},
		{
			name:    "start outside bounds",
			mutate:  func(c *Config) { c.Optimizer.Start = []float64{5, 90, 20, 30} },
			wantErr: true,
		},
		{
			name:    "inverted bounds",
			mutate:  func(c *Config) { c.Optimizer.Bounds.Long = RangeConfig{Min: 200, Max: 50} },
			wantErr: true,
		},
		{
			name:    "zero capital",
			mutate:  func(c *Config) { c.Backtest.InitialCapital = 0 },
			wantErr: true,
		},
		{
			name:    "localfs report without path",
			mutate:  func(c *Config) { c.Report.Path = "" },
			wantErr: true,
		},
		{
			name: "s3 report without bucket",
			mutate: func(c *Config) {
				c.Report.Type = "s3"
			},
			wantErr: true,
		},
		{
			name:    "unknown report type",
			mutate:  func(c *Config) { c.Report.Type = "gcs" },
			wantErr: true,
		},
		{
			name: "report disabled skips report checks",
			mutate: func(c *Config) {
				c.Report.Enabled = false
				c.Report.Path = ""
			},
			wantErr: false,
		},
		{
			name: "metrics enabled without addr",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Addr = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
