// Package macrossover implements a simple moving-average crossover
// strategy: long while the short mean sits above the long mean.
package macrossover

import (
	"fmt"

	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/indicator"
)

const name = "ma_crossover"

// Strategy holds the two rolling-mean windows
type Strategy struct {
	short int
	long  int
}

// New creates a moving-average crossover strategy
func New(short, long int) *Strategy {
	return &Strategy{short: short, long: long}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Description() string {
	return fmt.Sprintf("MA crossover (%d/%d)", s.short, s.long)
}

// Compute generates one signal per bar: long when the short rolling mean
// exceeds the long rolling mean, flat otherwise. Early bars use the
// expanding head of each mean, so every bar has a defined signal. No
// hysteresis is applied.
func (s *Strategy) Compute(series *core.PriceSeries) (*core.SignalFrame, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if s.short < 1 || s.long < 1 {
		return nil, core.WrapError(core.ErrBadWindow,
			fmt.Errorf("short=%d long=%d", s.short, s.long))
	}

	closes := series.Closes()
	shortMean := indicator.Mean(closes, s.short)
	longMean := indicator.Mean(closes, s.long)

	signals := make([]core.Signal, len(closes))
	for i := range closes {
		if shortMean[i] > longMean[i] {
			signals[i] = core.SignalLong
		}
	}

	return core.NewSignalFrame(name, series, signals,
		core.IndicatorSeries{Name: "short_mavg", Values: core.Defined(shortMean)},
		core.IndicatorSeries{Name: "long_mavg", Values: core.Defined(longMean)},
	)
}
