package core

import (
	"fmt"
	"time"
)

// Bar represents a single OHLCV price bar
type Bar struct {
	Symbol   string
	Interval string // "1m", "5m", "1h", "1d"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
	Time     time.Time
}

// PriceSeries is an ordered sequence of bars for one symbol.
// Bars are keyed by strictly increasing timestamps.
type PriceSeries struct {
	Symbol   string
	Interval string
	Bars     []Bar
}

// Len returns the number of bars in the series
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Empty reports whether the series carries no bars
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Bars) == 0
}

// Closes returns the closing prices in series order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Validate checks the preconditions every downstream consumer relies on:
// at least one bar, timestamps strictly increasing.
func (s *PriceSeries) Validate() error {
	if s.Empty() {
		return ErrEmptySeries
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return WrapError(ErrSeriesUnordered,
				fmt.Errorf("bar %d at %s does not follow bar %d at %s",
					i, s.Bars[i].Time, i-1, s.Bars[i-1].Time))
		}
	}
	return nil
}

// Signal is the categorical trading decision at one bar
type Signal int8

const (
	SignalShort Signal = -1
	SignalFlat  Signal = 0
	SignalLong  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case SignalShort:
		return "short"
	case SignalLong:
		return "long"
	default:
		return "flat"
	}
}
