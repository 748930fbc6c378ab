package backtest

import (
	"math"

	"github.com/quantora/tristrat/internal/core"
)

// Stats holds summary performance figures for one backtested strategy.
// These feed the CLI output and the run report; the optimizer only
// looks at terminal equity.
type Stats struct {
	Trades      int     // number of position changes
	TotalReturn float64 // terminal equity over initial capital, percent
	MaxDrawdown float64 // largest peak-to-trough equity decline, percent
	SharpeRatio float64 // per-bar risk-adjusted return, risk-free rate 0
}

// ComputeStats summarizes a portfolio trajectory
func ComputeStats(frame *core.SignalFrame, portfolio *Portfolio, cfg Config) Stats {
	if portfolio.Len() == 0 {
		return Stats{}
	}

	var trades int
	for _, p := range frame.Points {
		if p.PositionDelta != 0 {
			trades++
		}
	}

	totalReturn := (portfolio.TerminalEquity() - cfg.InitialCapital) / cfg.InitialCapital * 100

	return Stats{
		Trades:      trades,
		TotalReturn: totalReturn,
		MaxDrawdown: maxDrawdown(portfolio.Points) * 100,
		SharpeRatio: sharpeRatio(portfolio.Points),
	}
}

// maxDrawdown finds the largest peak-to-trough decline of the equity curve
func maxDrawdown(points []PortfolioPoint) float64 {
	var maxDD, peak float64
	for _, p := range points {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (peak - p.Equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio computes the mean over sample standard deviation of
// per-bar equity returns. Not annualized: bar intervals vary by run.
func sharpeRatio(points []PortfolioPoint) float64 {
	if len(points) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		if points[i-1].Equity == 0 {
			return 0
		}
		returns = append(returns, points[i].Equity/points[i-1].Equity-1)
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))
	if stdDev == 0 {
		return 0
	}

	return mean / stdDev
}
