// Package config loads and validates the batch run configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/quantora/tristrat/internal/backtest"
	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/optimizer"
	"github.com/quantora/tristrat/internal/storage/archive"
)

type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Backtest  BacktestConfig  `mapstructure:"backtest"`
	Report    ReportConfig    `mapstructure:"report"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// DataConfig names the requested price history
type DataConfig struct {
	Symbol   string `mapstructure:"symbol"`
	Start    string `mapstructure:"start"` // YYYY-MM-DD
	End      string `mapstructure:"end"`   // YYYY-MM-DD
	Interval string `mapstructure:"interval"`
}

// Range parses the configured date range
func (d DataConfig) Range() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", d.Start)
	if err != nil {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("data.start: %w", err))
	}
	end, err := time.Parse("2006-01-02", d.End)
	if err != nil {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("data.end: %w", err))
	}
	return start, end, nil
}

type OptimizerConfig struct {
	Start         []float64    `mapstructure:"start"`
	Bounds        BoundsConfig `mapstructure:"bounds"`
	MaxIterations int          `mapstructure:"max_iterations"`
}

type BoundsConfig struct {
	Short    RangeConfig `mapstructure:"short"`
	Long     RangeConfig `mapstructure:"long"`
	Momentum RangeConfig `mapstructure:"momentum"`
	Mean     RangeConfig `mapstructure:"mean"`
}

type RangeConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	UnitSize       float64 `mapstructure:"unit_size"`
}

type ReportConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // for localfs
	S3      S3Config `mapstructure:"s3"`   // for s3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults mirrors the canonical batch run
func Defaults() *Config {
	bounds := optimizer.DefaultBounds()
	return &Config{
		Data: DataConfig{
			Symbol:   "BTC-USD",
			Start:    "2023-01-01",
			End:      "2024-01-01",
			Interval: "1h",
		},
		Optimizer: OptimizerConfig{
			Start: optimizer.DefaultStart(),
			Bounds: BoundsConfig{
				Short:    RangeConfig{Min: bounds.Short.Min, Max: bounds.Short.Max},
				Long:     RangeConfig{Min: bounds.Long.Min, Max: bounds.Long.Max},
				Momentum: RangeConfig{Min: bounds.Momentum.Min, Max: bounds.Momentum.Max},
				Mean:     RangeConfig{Min: bounds.Mean.Min, Max: bounds.Mean.Max},
			},
		},
		Backtest: BacktestConfig{
			InitialCapital: backtest.DefaultConfig.InitialCapital,
			UnitSize:       backtest.DefaultConfig.UnitSize,
		},
		Report: ReportConfig{
			Enabled: true,
			Type:    "localfs",
			Path:    "reports",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Bounds converts the configured search box
func (c *Config) Bounds() optimizer.Bounds {
	return optimizer.Bounds{
		Short:    optimizer.Interval{Min: c.Optimizer.Bounds.Short.Min, Max: c.Optimizer.Bounds.Short.Max},
		Long:     optimizer.Interval{Min: c.Optimizer.Bounds.Long.Min, Max: c.Optimizer.Bounds.Long.Max},
		Momentum: optimizer.Interval{Min: c.Optimizer.Bounds.Momentum.Min, Max: c.Optimizer.Bounds.Momentum.Max},
		Mean:     optimizer.Interval{Min: c.Optimizer.Bounds.Mean.Min, Max: c.Optimizer.Bounds.Mean.Max},
	}
}

// BacktestConfig converts the configured accounting model
func (c *Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		InitialCapital: c.Backtest.InitialCapital,
		UnitSize:       c.Backtest.UnitSize,
	}
}

// ArchiveS3Config converts the configured S3 settings
func (c *Config) ArchiveS3Config() archive.S3Config {
	return archive.S3Config{
		Bucket:    c.Report.S3.Bucket,
		Endpoint:  c.Report.S3.Endpoint,
		Region:    c.Report.S3.Region,
		AccessKey: c.Report.S3.AccessKey,
		SecretKey: c.Report.S3.SecretKey,
		Prefix:    c.Report.S3.Prefix,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Data.Symbol == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("data.symbol is required"))
	}
	start, end, err := c.Data.Range()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("data.end %s must be after data.start %s", c.Data.End, c.Data.Start))
	}

	if len(c.Optimizer.Start) != optimizer.Dim {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("optimizer.start must have %d components, got %d", optimizer.Dim, len(c.Optimizer.Start)))
	}
	bounds := c.Bounds()
	if err := bounds.Validate(); err != nil {
		return err
	}
	for i, iv := range bounds.Intervals() {
		if !iv.Contains(c.Optimizer.Start[i]) {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("optimizer.start[%d] = %g outside [%g, %g]", i, c.Optimizer.Start[i], iv.Min, iv.Max))
		}
	}

	if err := c.BacktestConfig().Validate(); err != nil {
		return err
	}

	if c.Report.Enabled {
		switch c.Report.Type {
		case "localfs":
			if c.Report.Path == "" {
				return core.WrapError(core.ErrConfigMissing, fmt.Errorf("report.path required for localfs"))
			}
		case "s3":
			if c.Report.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing, fmt.Errorf("report.s3.bucket required for s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("report.type must be localfs or s3, got %q", c.Report.Type))
		}
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("metrics.addr required when metrics enabled"))
	}

	return nil
}
