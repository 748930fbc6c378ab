// Package indicator provides rolling-window statistics over price slices.
//
// Columns that are undefined over a warmup span are returned as
// optional.Option values; everything else is a plain float64 slice.
package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Mean calculates a trailing mean over the given window. The first
// window-1 points average however much history is available, so every
// point is defined for window >= 1.
func Mean(prices []float64, window int) []float64 {
	if window < 1 {
		return nil
	}

	result := make([]float64, len(prices))
	var sum float64
	for i, p := range prices {
		sum += p
		n := window
		if i < window {
			n = i + 1
		} else {
			sum -= prices[i-window]
		}
		result[i] = sum / float64(n)
	}
	return result
}

// WindowMean calculates a trailing mean over a full window only.
// The first window-1 points are None.
func WindowMean(prices []float64, window int) []optional.Option[float64] {
	result := noneColumn(len(prices))
	if window < 1 {
		return result
	}

	var sum float64
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			result[i] = optional.Some(sum / float64(window))
		}
	}
	return result
}

// WindowStd calculates a trailing sample standard deviation over a full
// window. The first window-1 points are None, as is every point when
// window < 2 (a single observation has no sample deviation).
func WindowStd(prices []float64, window int) []optional.Option[float64] {
	result := noneColumn(len(prices))
	if window < 2 {
		return result
	}

	for i := window - 1; i < len(prices); i++ {
		slice := prices[i-window+1 : i+1]

		var sum float64
		for _, p := range slice {
			sum += p
		}
		mean := sum / float64(window)

		var sq float64
		for _, p := range slice {
			d := p - mean
			sq += d * d
		}
		result[i] = optional.Some(math.Sqrt(sq / float64(window-1)))
	}
	return result
}

// Diff calculates price[t] - price[t-lag]. The first lag points are None.
func Diff(prices []float64, lag int) []optional.Option[float64] {
	result := noneColumn(len(prices))
	if lag < 1 {
		return result
	}

	for i := lag; i < len(prices); i++ {
		result[i] = optional.Some(prices[i] - prices[i-lag])
	}
	return result
}

func noneColumn(n int) []optional.Option[float64] {
	col := make([]optional.Option[float64], n)
	for i := range col {
		col[i] = optional.None[float64]()
	}
	return col
}
