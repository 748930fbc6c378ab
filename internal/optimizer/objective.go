package optimizer

import (
	"math"

	"github.com/quantora/tristrat/internal/backtest"
	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/strategy"
)

// CostPenalty is returned by Cost whenever an evaluation cannot produce
// a defined equity. It is large but finite: the minimizer must always
// receive a usable value, and no realizable equity comes close to it.
const CostPenalty = 1e12

// Objective binds one price series and one accounting model into the
// scalar function the minimizer drives. Evaluations are stateless and
// deterministic: no caching, no randomness, bit-identical repeats.
type Objective struct {
	series *core.PriceSeries
	bounds Bounds
	cfg    backtest.Config
	engine *backtest.Engine
}

// NewObjective creates an objective over a non-empty price series
func NewObjective(series *core.PriceSeries, bounds Bounds, cfg backtest.Config) (*Objective, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Objective{
		series: series,
		bounds: bounds,
		cfg:    cfg,
		engine: backtest.NewEngine(cfg),
	}, nil
}

// Bounds returns the search box of this objective
func (o *Objective) Bounds() Bounds {
	return o.bounds
}

// AverageTerminalEquity runs the strategy trio at the given windows,
// backtests each frame, and returns the arithmetic mean of the three
// terminal equities. This is the economic quantity being maximized.
func (o *Objective) AverageTerminalEquity(p Parameters) (float64, error) {
	eval, err := o.Evaluate(p)
	if err != nil {
		return 0, err
	}
	return eval.AvgTerminalEquity, nil
}

// Evaluation carries the full output of one objective evaluation, kept
// for the final reporting pass at the optimum.
type Evaluation struct {
	Params            Parameters
	AvgTerminalEquity float64
	Frames            []*core.SignalFrame
	Portfolios        []*backtest.Portfolio
}

// Evaluate runs the trio and the backtests once at the given parameters
func (o *Objective) Evaluate(p Parameters) (*Evaluation, error) {
	set := strategy.Set(p.ShortWindow, p.LongWindow, p.MomentumWindow, p.MeanWindow)

	eval := &Evaluation{
		Params:     p,
		Frames:     make([]*core.SignalFrame, 0, len(set)),
		Portfolios: make([]*backtest.Portfolio, 0, len(set)),
	}

	var sum float64
	for _, strat := range set {
		frame, err := strat.Compute(o.series)
		if err != nil {
			return nil, err
		}
		portfolio, err := o.engine.Run(o.series, frame)
		if err != nil {
			return nil, err
		}
		sum += portfolio.TerminalEquity()
		eval.Frames = append(eval.Frames, frame)
		eval.Portfolios = append(eval.Portfolios, portfolio)
	}

	eval.AvgTerminalEquity = sum / float64(len(set))
	return eval, nil
}

// Cost is the named minimization adapter: the optimizer minimizes a
// cost, and cost is defined as the negative average terminal equity so
// that minimizing it maximizes equity. The raw vector is projected into
// the box and truncated to integers first. Cost is total over R^4: any
// failed or non-finite evaluation maps to CostPenalty, never to NaN.
func (o *Objective) Cost(x []float64) float64 {
	p := FromVector(o.bounds.Clamp(x))

	equity, err := o.AverageTerminalEquity(p)
	if err != nil || math.IsNaN(equity) || math.IsInf(equity, 0) {
		return CostPenalty
	}
	return -equity
}
