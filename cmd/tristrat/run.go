package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantora/tristrat/internal/backtest"
	"github.com/quantora/tristrat/internal/collector/yahoo"
	"github.com/quantora/tristrat/internal/config"
	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/logger"
	"github.com/quantora/tristrat/internal/metrics"
	"github.com/quantora/tristrat/internal/optimizer"
	"github.com/quantora/tristrat/internal/report"
	"github.com/quantora/tristrat/internal/storage/archive"
)

var (
	runSymbol   string
	runFrom     string
	runTo       string
	runInterval string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch history, optimize signal windows and report the result",
	Long: `Fetch the configured price history, search for the signal windows that
maximize the average terminal equity of the three strategies, then
backtest the trio once at the optimum and write the run report.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSymbol, "symbol", "", "Symbol to fetch (overrides config)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "Start date YYYY-MM-DD (overrides config)")
	runCmd.Flags().StringVar(&runTo, "to", "", "End date YYYY-MM-DD (overrides config)")
	runCmd.Flags().StringVar(&runInterval, "interval", "", "Bar interval, e.g. 1h or 1d (overrides config)")

	rootCmd.AddCommand(runCmd)
}

// loadConfig resolves the effective configuration from the config file,
// defaults, and command-line overrides.
func loadConfig() (*config.Config, *zap.Logger, error) {
	log := logger.Must(debug)

	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if runSymbol != "" {
		cfg.Data.Symbol = runSymbol
	}
	if runFrom != "" {
		cfg.Data.Start = runFrom
	}
	if runTo != "" {
		cfg.Data.End = runTo
	}
	if runInterval != "" {
		cfg.Data.Interval = runInterval
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, log, nil
}

// fetchSeries pulls the configured history and turns the empty-result
// case into a diagnostic naming the exact request.
func fetchSeries(ctx context.Context, cfg *config.Config, log *zap.Logger, reg *metrics.Registry) (*core.PriceSeries, error) {
	start, end, err := cfg.Data.Range()
	if err != nil {
		return nil, err
	}

	provider := yahoo.New()
	log.Info("fetching price history",
		zap.String("provider", provider.Name()),
		zap.String("symbol", cfg.Data.Symbol),
		zap.String("interval", cfg.Data.Interval),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	series, err := provider.FetchHistory(ctx, cfg.Data.Symbol, start, end, cfg.Data.Interval)
	reg.ObserveCollectorRequest(provider.Name(), err)
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			return nil, fmt.Errorf("no price data for %s between %s and %s at interval %s: %w",
				cfg.Data.Symbol, cfg.Data.Start, cfg.Data.End, cfg.Data.Interval, err)
		}
		return nil, fmt.Errorf("fetching %s history: %w", cfg.Data.Symbol, err)
	}

	log.Info("price history fetched", zap.Int("bars", series.Len()))
	return series, nil
}

func printStats(params optimizer.Parameters, eval *optimizer.Evaluation, cfg backtest.Config) map[string]backtest.Stats {
	stats := make(map[string]backtest.Stats, len(eval.Frames))

	fmt.Println()
	fmt.Printf("Parameters: %s\n", params)
	fmt.Printf("Average terminal equity: %.2f\n", eval.AvgTerminalEquity)
	fmt.Println()

	for i, frame := range eval.Frames {
		portfolio := eval.Portfolios[i]
		s := backtest.ComputeStats(frame, portfolio, cfg)
		stats[frame.Strategy] = s

		fmt.Printf("%s:\n", frame.Strategy)
		fmt.Printf("  Terminal equity: %.2f\n", portfolio.TerminalEquity())
		fmt.Printf("  Total return:    %.2f%%\n", s.TotalReturn)
		fmt.Printf("  Max drawdown:    %.2f%%\n", s.MaxDrawdown)
		fmt.Printf("  Sharpe ratio:    %.4f\n", s.SharpeRatio)
		fmt.Printf("  Trades:          %d\n", s.Trades)
	}

	return stats
}

func newStorage(cfg *config.Config) (archive.Storage, error) {
	switch cfg.Report.Type {
	case "s3":
		return archive.NewS3(cfg.ArchiveS3Config())
	default:
		return archive.NewLocalFS(cfg.Report.Path)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := metrics.NewRegistry()
	if cfg.Metrics.Enabled {
		go func() {
			log.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, reg.Handler()); err != nil {
				log.Error("metrics endpoint error", zap.Error(err))
			}
		}()
	}

	started := time.Now()

	series, err := fetchSeries(ctx, cfg, log, reg)
	if err != nil {
		log.Error("fetch failed", zap.Error(err))
		return err
	}

	obj, err := optimizer.NewObjective(series, cfg.Bounds(), cfg.BacktestConfig())
	if err != nil {
		return fmt.Errorf("building objective: %w", err)
	}

	opt := optimizer.New(obj, optimizer.Options{
		Start:         cfg.Optimizer.Start,
		MaxIterations: cfg.Optimizer.MaxIterations,
		Logger:        log,
		Metrics:       reg,
	})

	log.Info("starting optimization",
		zap.Float64s("start", cfg.Optimizer.Start),
		zap.Int("max_iterations", cfg.Optimizer.MaxIterations),
	)

	result, err := opt.Run()
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	log.Info("optimization finished",
		zap.String("params", result.Params.String()),
		zap.Float64("avg_terminal_equity", result.AvgTerminalEquity),
		zap.Bool("converged", result.Converged),
		zap.String("status", result.Status),
		zap.Int("evaluations", result.Evaluations),
	)

	eval, err := obj.Evaluate(result.Params)
	if err != nil {
		return fmt.Errorf("evaluating optimum: %w", err)
	}
	for _, frame := range eval.Frames {
		reg.ObserveBacktest(frame.Strategy)
	}

	stats := printStats(result.Params, eval, cfg.BacktestConfig())
	reg.ObserveRunDuration(time.Since(started))

	if !cfg.Report.Enabled {
		return nil
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return fmt.Errorf("opening report storage: %w", err)
	}

	start, end, _ := cfg.Data.Range()
	writer := report.NewWriter(storage, log)
	path, err := writer.Write(ctx, &report.Run{
		Symbol:            cfg.Data.Symbol,
		Interval:          cfg.Data.Interval,
		Start:             start,
		End:               end,
		Params:            result.Params,
		Converged:         result.Converged,
		Status:            result.Status,
		Evaluations:       result.Evaluations,
		AvgTerminalEquity: eval.AvgTerminalEquity,
		Series:            series,
		Frames:            eval.Frames,
		Portfolios:        eval.Portfolios,
		Stats:             stats,
	})
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Printf("\nReport written to %s\n", path)
	return nil
}
