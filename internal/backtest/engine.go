// Package backtest simulates the cash and position consequences of
// following a signal frame over a price series.
//
// The accounting model is deliberately simple: each unit of signal
// trades a fixed number of units of the underlying at the close of the
// bar where the signal changes. No costs, spreads, slippage, margin or
// interest. Short positions are accounted identically to longs: the
// entry produces a cash inflow and negative holdings.
package backtest

import (
	"fmt"

	"github.com/quantora/tristrat/internal/core"
)

// Config holds the accounting assumptions of the engine
type Config struct {
	InitialCapital float64 // starting cash
	UnitSize       float64 // units of the underlying traded per signal step
}

// DefaultConfig is the canonical accounting model
var DefaultConfig = Config{
	InitialCapital: 10_000,
	UnitSize:       1_000,
}

// Validate checks the accounting configuration
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial capital must be positive, got %g", c.InitialCapital))
	}
	if c.UnitSize <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unit size must be positive, got %g", c.UnitSize))
	}
	return nil
}

// Engine runs the accounting model
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given accounting configuration
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run simulates the frame against the series:
//
//	position[t] = signal[t] * UnitSize
//	holdings[t] = position[t] * close[t]
//	cash[t]     = InitialCapital - sum of (position[k]-position[k-1]) * close[k] for k <= t
//	equity[t]   = cash[t] + holdings[t]
//
// with position[-1] = 0. The equity identity holds exactly at every bar.
func (e *Engine) Run(series *core.PriceSeries, frame *core.SignalFrame) (*Portfolio, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if frame.Len() != series.Len() {
		return nil, core.WrapError(core.ErrFrameMismatch,
			fmt.Errorf("frame has %d points for %d bars", frame.Len(), series.Len()))
	}

	points := make([]PortfolioPoint, series.Len())
	var prev, spent float64
	for i, bar := range series.Bars {
		position := float64(frame.Points[i].Signal) * e.cfg.UnitSize
		holdings := position * bar.Close
		spent += (position - prev) * bar.Close
		cash := e.cfg.InitialCapital - spent

		points[i] = PortfolioPoint{
			Time:     bar.Time,
			Holdings: holdings,
			Cash:     cash,
			Equity:   cash + holdings,
		}
		prev = position
	}

	return &Portfolio{Strategy: frame.Strategy, Points: points}, nil
}
