// Package optimizer searches the bounded window-parameter space for the
// vector that maximizes the average terminal equity of the canonical
// strategy trio.
package optimizer

import (
	"fmt"

	"github.com/quantora/tristrat/internal/core"
)

// Dim is the dimension of the parameter space
const Dim = 4

// Parameters is the 4-dimensional window vector evaluated by the
// objective. Windows are integers: the search space is continuous but
// every component is truncated before use.
type Parameters struct {
	ShortWindow    int
	LongWindow     int
	MomentumWindow int
	MeanWindow     int
}

// FromVector truncates each component of a raw search vector toward
// zero, mirroring integer conversion of the continuous optimizer state.
func FromVector(x []float64) Parameters {
	return Parameters{
		ShortWindow:    int(x[0]),
		LongWindow:     int(x[1]),
		MomentumWindow: int(x[2]),
		MeanWindow:     int(x[3]),
	}
}

// Vector returns the parameters as a search vector
func (p Parameters) Vector() []float64 {
	return []float64{
		float64(p.ShortWindow),
		float64(p.LongWindow),
		float64(p.MomentumWindow),
		float64(p.MeanWindow),
	}
}

func (p Parameters) String() string {
	return fmt.Sprintf("short=%d long=%d momentum=%d mean=%d",
		p.ShortWindow, p.LongWindow, p.MomentumWindow, p.MeanWindow)
}

// Interval is a closed bound on one parameter
type Interval struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the interval
func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

func (i Interval) clamp(v float64) float64 {
	if v < i.Min {
		return i.Min
	}
	if v > i.Max {
		return i.Max
	}
	return v
}

// Bounds holds the independent box constraints of the search. No
// cross-parameter relation (such as short < long) is enforced.
type Bounds struct {
	Short    Interval
	Long     Interval
	Momentum Interval
	Mean     Interval
}

// DefaultBounds returns the canonical midterm-trading search box
func DefaultBounds() Bounds {
	return Bounds{
		Short:    Interval{Min: 20, Max: 50},
		Long:     Interval{Min: 50, Max: 200},
		Momentum: Interval{Min: 10, Max: 30},
		Mean:     Interval{Min: 20, Max: 60},
	}
}

// DefaultStart is the canonical fixed initial guess
func DefaultStart() []float64 {
	return []float64{30, 90, 20, 30}
}

// Intervals returns the bounds in parameter order
func (b Bounds) Intervals() [Dim]Interval {
	return [Dim]Interval{b.Short, b.Long, b.Momentum, b.Mean}
}

// Clamp projects a raw search vector into the box
func (b Bounds) Clamp(x []float64) []float64 {
	intervals := b.Intervals()
	clamped := make([]float64, Dim)
	for i := range clamped {
		clamped[i] = intervals[i].clamp(x[i])
	}
	return clamped
}

// Validate checks that every interval is ordered and every window
// positive once truncated.
func (b Bounds) Validate() error {
	names := [Dim]string{"short", "long", "momentum", "mean"}
	for i, iv := range b.Intervals() {
		if iv.Min > iv.Max {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("%s bounds inverted: [%g, %g]", names[i], iv.Min, iv.Max))
		}
		if iv.Min < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("%s lower bound must be at least 1, got %g", names[i], iv.Min))
		}
	}
	return nil
}
