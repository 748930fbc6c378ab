// Package meanrev implements a mean-reversion strategy: trade against
// statistical extremes measured by a rolling z-score.
package meanrev

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/indicator"
)

const name = "mean_reversion"

// zThreshold is the number of standard deviations that marks a
// statistical extreme.
const zThreshold = 1.0

// Strategy holds the rolling statistics window
type Strategy struct {
	window int
}

// New creates a mean-reversion strategy
func New(window int) *Strategy {
	return &Strategy{window: window}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Description() string {
	return fmt.Sprintf("mean reversion (%d)", s.window)
}

// Compute generates one signal per bar from the z-score of the close
// against its rolling mean and sample standard deviation: long when the
// price is unusually low (z < -1), short when unusually high (z > 1).
// An undefined z-score, including the zero-deviation case, stays flat.
func (s *Strategy) Compute(series *core.PriceSeries) (*core.SignalFrame, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if s.window < 1 {
		return nil, core.WrapError(core.ErrBadWindow, fmt.Errorf("window=%d", s.window))
	}

	closes := series.Closes()
	means := indicator.WindowMean(closes, s.window)
	stds := indicator.WindowStd(closes, s.window)

	signals := make([]core.Signal, len(closes))
	zScores := make([]optional.Option[float64], len(closes))
	for i := range closes {
		zScores[i] = optional.None[float64]()

		mean, meanErr := means[i].Take()
		std, stdErr := stds[i].Take()
		if meanErr != nil || stdErr != nil || std == 0 {
			continue
		}

		z := (closes[i] - mean) / std
		zScores[i] = optional.Some(z)
		switch {
		case z < -zThreshold:
			signals[i] = core.SignalLong
		case z > zThreshold:
			signals[i] = core.SignalShort
		}
	}

	return core.NewSignalFrame(name, series, signals,
		core.IndicatorSeries{Name: "mean", Values: means},
		core.IndicatorSeries{Name: "std", Values: stds},
		core.IndicatorSeries{Name: "z_score", Values: zScores},
	)
}
