package optimizer

import (
	"go.uber.org/zap"
	gopt "gonum.org/v1/gonum/optimize"

	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/metrics"
)

// Options configures one optimization run
type Options struct {
	Start         []float64 // initial guess; DefaultStart when nil
	MaxIterations int       // 0 means the minimizer's own default
	Logger        *zap.Logger
	Metrics       *metrics.Registry
}

// Result is the outcome of a bounded local search. The returned point
// is the best attained, whether or not the minimizer formally
// converged: callers must not assume a global optimum.
type Result struct {
	Params            Parameters
	AvgTerminalEquity float64
	Converged         bool
	Status            string
	Evaluations       int
}

// Optimizer drives a deterministic, derivative-free local minimization
// of an Objective over its box-constrained parameter space.
type Optimizer struct {
	obj  *Objective
	opts Options
}

// New creates an optimizer for the given objective
func New(obj *Objective, opts Options) *Optimizer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Start == nil {
		opts.Start = DefaultStart()
	}
	return &Optimizer{obj: obj, opts: opts}
}

// Run minimizes the objective cost with Nelder-Mead from the fixed
// starting point. Bound handling is by projection: every candidate is
// clamped into the box inside the cost function, and the returned point
// is clamped once more before truncation. Non-convergence is surfaced
// on the Result and logged, but the best point attained is accepted.
func (o *Optimizer) Run() (*Result, error) {
	cost := o.obj.Cost
	if o.opts.Metrics != nil {
		cost = o.instrumented(cost)
	}

	problem := gopt.Problem{Func: cost}
	settings := &gopt.Settings{
		Converger: &gopt.FunctionConverge{
			Absolute:   1e-6,
			Iterations: 50,
		},
	}
	if o.opts.MaxIterations > 0 {
		settings.MajorIterations = o.opts.MaxIterations
	}

	res, err := gopt.Minimize(problem, o.opts.Start, settings, &gopt.NelderMead{})
	if res == nil {
		return nil, core.WrapError(core.ErrOptimizerFailed, err)
	}

	converged := err == nil
	switch res.Status {
	case gopt.NotTerminated, gopt.IterationLimit, gopt.FunctionEvaluationLimit, gopt.RuntimeLimit:
		converged = false
	}

	params := FromVector(o.obj.Bounds().Clamp(res.X))
	equity, evalErr := o.obj.AverageTerminalEquity(params)
	if evalErr != nil {
		return nil, core.WrapError(core.ErrOptimizerFailed, evalErr)
	}

	if !converged {
		o.opts.Logger.Warn("minimizer terminated without formal convergence; accepting best point",
			zap.String("status", res.Status.String()),
			zap.String("params", params.String()),
		)
	}

	return &Result{
		Params:            params,
		AvgTerminalEquity: equity,
		Converged:         converged,
		Status:            res.Status.String(),
		Evaluations:       res.Stats.FuncEvaluations,
	}, nil
}

// instrumented wraps the cost function with evaluation metrics. The
// wrapper observes, never alters: the underlying cost stays pure.
func (o *Optimizer) instrumented(cost func([]float64) float64) func([]float64) float64 {
	best := CostPenalty
	return func(x []float64) float64 {
		c := cost(x)
		if c < best {
			best = c
		}
		o.opts.Metrics.ObserveEvaluation(best)
		return c
	}
}
