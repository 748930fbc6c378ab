package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantora/tristrat/internal/metrics"
	"github.com/quantora/tristrat/internal/optimizer"
)

var (
	btShort    int
	btLong     int
	btMomentum int
	btMean     int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the three strategies at fixed signal windows",
	Long:  "Run the strategy trio once at the given windows and show performance statistics, without optimizing.",
	RunE:  runBacktestCmd,
}

func init() {
	backtestCmd.Flags().IntVar(&btShort, "short", 30, "Short moving-average window")
	backtestCmd.Flags().IntVar(&btLong, "long", 90, "Long moving-average window")
	backtestCmd.Flags().IntVar(&btMomentum, "momentum", 20, "Momentum lookback window")
	backtestCmd.Flags().IntVar(&btMean, "mean", 30, "Mean-reversion window")

	backtestCmd.Flags().StringVar(&runSymbol, "symbol", "", "Symbol to fetch (overrides config)")
	backtestCmd.Flags().StringVar(&runFrom, "from", "", "Start date YYYY-MM-DD (overrides config)")
	backtestCmd.Flags().StringVar(&runTo, "to", "", "End date YYYY-MM-DD (overrides config)")
	backtestCmd.Flags().StringVar(&runInterval, "interval", "", "Bar interval, e.g. 1h or 1d (overrides config)")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := metrics.NewRegistry()
	series, err := fetchSeries(ctx, cfg, log, reg)
	if err != nil {
		return err
	}

	params := optimizer.Parameters{
		ShortWindow:    btShort,
		LongWindow:     btLong,
		MomentumWindow: btMomentum,
		MeanWindow:     btMean,
	}

	obj, err := optimizer.NewObjective(series, cfg.Bounds(), cfg.BacktestConfig())
	if err != nil {
		return fmt.Errorf("building objective: %w", err)
	}

	eval, err := obj.Evaluate(params)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printStats(params, eval, cfg.BacktestConfig())
	return nil
}
