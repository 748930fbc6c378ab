// Package momentum implements a price momentum strategy: long while the
// price change over the window is positive.
package momentum

import (
	"fmt"

	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/indicator"
)

const name = "momentum"

// Strategy holds the look-back window
type Strategy struct {
	window int
}

// New creates a momentum strategy
func New(window int) *Strategy {
	return &Strategy{window: window}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Description() string {
	return fmt.Sprintf("momentum (%d)", s.window)
}

// Compute generates one signal per bar: long when price[t]-price[t-window]
// is positive. Momentum is undefined for the first window bars, which
// stay flat rather than failing.
func (s *Strategy) Compute(series *core.PriceSeries) (*core.SignalFrame, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if s.window < 1 {
		return nil, core.WrapError(core.ErrBadWindow, fmt.Errorf("window=%d", s.window))
	}

	closes := series.Closes()
	diffs := indicator.Diff(closes, s.window)

	signals := make([]core.Signal, len(closes))
	for i, d := range diffs {
		if d.IsSome() && d.TakeOr(0) > 0 {
			signals[i] = core.SignalLong
		}
	}

	return core.NewSignalFrame(name, series, signals,
		core.IndicatorSeries{Name: "momentum", Values: diffs},
	)
}
