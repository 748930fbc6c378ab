package core

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
)

// SignalPoint is one row of a SignalFrame, aligned 1:1 with the bar at
// the same index in the source PriceSeries.
type SignalPoint struct {
	Time          time.Time
	Price         float64 // copy of the bar close
	Signal        Signal
	PositionDelta float64 // signal[t] - signal[t-1], 0 at t=0
}

// IndicatorSeries is a named indicator column for the plotting consumer.
// Values are None over the indicator's warmup span.
type IndicatorSeries struct {
	Name   string
	Values []optional.Option[float64]
}

// SignalFrame is the output of one strategy over one price series.
type SignalFrame struct {
	Strategy   string
	Points     []SignalPoint
	Indicators []IndicatorSeries
}

// NewSignalFrame builds a frame from per-bar signals, computing position
// deltas and validating that every column aligns with the series.
// PositionDelta[0] is 0 by definition: there is no look-back before the
// series start.
func NewSignalFrame(strategy string, series *PriceSeries, signals []Signal, indicators ...IndicatorSeries) (*SignalFrame, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	n := series.Len()
	if len(signals) != n {
		return nil, WrapError(ErrFrameMismatch,
			fmt.Errorf("%d signals for %d bars", len(signals), n))
	}
	for _, ind := range indicators {
		if len(ind.Values) != n {
			return nil, WrapError(ErrFrameMismatch,
				fmt.Errorf("indicator %q has %d values for %d bars", ind.Name, len(ind.Values), n))
		}
	}

	points := make([]SignalPoint, n)
	prev := SignalFlat
	for i, bar := range series.Bars {
		delta := float64(signals[i] - prev)
		if i == 0 {
			delta = 0
		}
		points[i] = SignalPoint{
			Time:          bar.Time,
			Price:         bar.Close,
			Signal:        signals[i],
			PositionDelta: delta,
		}
		prev = signals[i]
	}

	return &SignalFrame{
		Strategy:   strategy,
		Points:     points,
		Indicators: indicators,
	}, nil
}

// Len returns the number of points in the frame
func (f *SignalFrame) Len() int {
	return len(f.Points)
}

// Indicator returns the named indicator column, if present
func (f *SignalFrame) Indicator(name string) (IndicatorSeries, bool) {
	for _, ind := range f.Indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return IndicatorSeries{}, false
}

// Defined wraps an always-defined value column into an option column
func Defined(values []float64) []optional.Option[float64] {
	opts := make([]optional.Option[float64], len(values))
	for i, v := range values {
		opts[i] = optional.Some(v)
	}
	return opts
}
