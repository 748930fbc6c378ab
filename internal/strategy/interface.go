// Package strategy defines the trading strategy capability and the
// canonical trio evaluated together by the optimizer.
package strategy

import (
	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/strategy/macrossover"
	"github.com/quantora/tristrat/internal/strategy/meanrev"
	"github.com/quantora/tristrat/internal/strategy/momentum"
)

// Strategy maps a price series to a signal frame. Implementations are
// stateless and deterministic: the same series always yields the same
// frame.
type Strategy interface {
	Name() string
	Description() string
	Compute(series *core.PriceSeries) (*core.SignalFrame, error)
}

// Set builds the canonical strategy trio in fixed order: moving-average
// crossover, momentum, mean-reversion.
func Set(short, long, momentumWindow, meanWindow int) []Strategy {
	return []Strategy{
		macrossover.New(short, long),
		momentum.New(momentumWindow),
		meanrev.New(meanWindow),
	}
}
