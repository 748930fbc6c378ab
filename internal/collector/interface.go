// Package collector defines the market data boundary: an external
// provider hands the core an ordered price series or an explicit
// error, never a partially defined one.
package collector

import (
	"context"
	"time"

	"github.com/quantora/tristrat/internal/core"
)

// Provider fetches historical price data
type Provider interface {
	Name() string

	// FetchHistory returns the ordered bar series for the symbol over
	// [start, end] at the given interval. An empty result is an error
	// (core.ErrNoData), not an empty series.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (*core.PriceSeries, error)
}
