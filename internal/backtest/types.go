package backtest

import "time"

// PortfolioPoint is the accounting state after bar t, aligned 1:1 with
// the signal frame and price series.
type PortfolioPoint struct {
	Time     time.Time
	Holdings float64 // mark-to-market value of the position
	Cash     float64
	Equity   float64 // Cash + Holdings
}

// Portfolio is the simulated cash/position trajectory of one strategy
type Portfolio struct {
	Strategy string
	Points   []PortfolioPoint
}

// Len returns the number of points in the trajectory
func (p *Portfolio) Len() int {
	return len(p.Points)
}

// TerminalEquity returns the total equity after the last bar
func (p *Portfolio) TerminalEquity() float64 {
	if len(p.Points) == 0 {
		return 0
	}
	return p.Points[len(p.Points)-1].Equity
}
