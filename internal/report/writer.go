// Package report serializes a finished optimization run for the
// external plotting consumer: the raw price series plus each strategy's
// full signal frame and portfolio, and a YAML summary. Consumers read
// these files; nothing in the core reads them back.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quantora/tristrat/internal/backtest"
	"github.com/quantora/tristrat/internal/core"
	"github.com/quantora/tristrat/internal/optimizer"
	"github.com/quantora/tristrat/internal/storage/archive"
)

// Run is everything one optimization run produced
type Run struct {
	ID                string
	Symbol            string
	Interval          string
	Start             time.Time
	End               time.Time
	Params            optimizer.Parameters
	Converged         bool
	Status            string
	Evaluations       int
	AvgTerminalEquity float64
	Series            *core.PriceSeries
	Frames            []*core.SignalFrame
	Portfolios        []*backtest.Portfolio
	Stats             map[string]backtest.Stats
}

// Writer persists runs through an archive backend
type Writer struct {
	storage archive.Storage
	logger  *zap.Logger
}

// NewWriter creates a report writer
func NewWriter(storage archive.Storage, logger ...*zap.Logger) *Writer {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Writer{storage: storage, logger: l}
}

// Write stores the run under runs/<date>-<id>/ and returns that base
// path. A missing run ID is assigned here.
func (w *Writer) Write(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	base := fmt.Sprintf("runs/%s-%s", run.Start.Format("2006-01-02"), run.ID)

	files := map[string][]byte{}

	seriesCSV, err := seriesCSV(run.Series)
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	files[base+"/series.csv"] = seriesCSV

	for i, frame := range run.Frames {
		signalsCSV, err := frameCSV(frame)
		if err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, err)
		}
		files[fmt.Sprintf("%s/%s_signals.csv", base, frame.Strategy)] = signalsCSV

		portfolioCSV, err := portfolioCSV(run.Portfolios[i])
		if err != nil {
			return "", core.WrapError(core.ErrArchiveFailed, err)
		}
		files[fmt.Sprintf("%s/%s_portfolio.csv", base, frame.Strategy)] = portfolioCSV
	}

	summary, err := summaryYAML(run)
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	files[base+"/summary.yaml"] = summary

	for path, data := range files {
		if err := w.storage.Write(ctx, path, data); err != nil {
			return "", core.WrapError(core.ErrArchiveFailed,
				fmt.Errorf("writing %s: %w", path, err))
		}
	}

	w.logger.Info("run report written",
		zap.String("run_id", run.ID),
		zap.String("path", base),
		zap.Int("files", len(files)),
	)
	return base, nil
}

func seriesCSV(series *core.PriceSeries) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return nil, err
	}
	for _, bar := range series.Bars {
		record := []string{
			bar.Time.UTC().Format(time.RFC3339),
			formatFloat(bar.Open),
			formatFloat(bar.High),
			formatFloat(bar.Low),
			formatFloat(bar.Close),
			strconv.FormatInt(bar.Volume, 10),
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

func frameCSV(frame *core.SignalFrame) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	header := []string{"time", "price", "signal", "position_delta"}
	for _, ind := range frame.Indicators {
		header = append(header, ind.Name)
	}
	if err := cw.Write(header); err != nil {
		return nil, err
	}

	for i, p := range frame.Points {
		record := []string{
			p.Time.UTC().Format(time.RFC3339),
			formatFloat(p.Price),
			strconv.Itoa(int(p.Signal)),
			formatFloat(p.PositionDelta),
		}
		for _, ind := range frame.Indicators {
			record = append(record, formatOption(ind.Values[i]))
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

func portfolioCSV(portfolio *backtest.Portfolio) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write([]string{"time", "holdings", "cash", "total_equity"}); err != nil {
		return nil, err
	}
	for _, p := range portfolio.Points {
		record := []string{
			p.Time.UTC().Format(time.RFC3339),
			formatFloat(p.Holdings),
			formatFloat(p.Cash),
			formatFloat(p.Equity),
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

// summary mirrors Run without the bulky series data
type summary struct {
	RunID             string    `yaml:"run_id"`
	Symbol            string    `yaml:"symbol"`
	Interval          string    `yaml:"interval"`
	Start             time.Time `yaml:"start"`
	End               time.Time `yaml:"end"`
	Bars              int       `yaml:"bars"`
	Converged         bool      `yaml:"converged"`
	Status            string    `yaml:"status"`
	Evaluations       int       `yaml:"evaluations"`
	AvgTerminalEquity float64   `yaml:"avg_terminal_equity"`

	Params struct {
		ShortWindow    int `yaml:"short_window"`
		LongWindow     int `yaml:"long_window"`
		MomentumWindow int `yaml:"momentum_window"`
		MeanWindow     int `yaml:"mean_window"`
	} `yaml:"params"`

	Strategies map[string]strategySummary `yaml:"strategies"`
}

type strategySummary struct {
	TerminalEquity float64 `yaml:"terminal_equity"`
	Trades         int     `yaml:"trades"`
	TotalReturn    float64 `yaml:"total_return_pct"`
	MaxDrawdown    float64 `yaml:"max_drawdown_pct"`
	SharpeRatio    float64 `yaml:"sharpe_ratio"`
}

func summaryYAML(run *Run) ([]byte, error) {
	s := summary{
		RunID:             run.ID,
		Symbol:            run.Symbol,
		Interval:          run.Interval,
		Start:             run.Start,
		End:               run.End,
		Bars:              run.Series.Len(),
		Converged:         run.Converged,
		Status:            run.Status,
		Evaluations:       run.Evaluations,
		AvgTerminalEquity: run.AvgTerminalEquity,
		Strategies:        make(map[string]strategySummary),
	}
	s.Params.ShortWindow = run.Params.ShortWindow
	s.Params.LongWindow = run.Params.LongWindow
	s.Params.MomentumWindow = run.Params.MomentumWindow
	s.Params.MeanWindow = run.Params.MeanWindow

	for i, frame := range run.Frames {
		stats := run.Stats[frame.Strategy]
		s.Strategies[frame.Strategy] = strategySummary{
			TerminalEquity: run.Portfolios[i].TerminalEquity(),
			Trades:         stats.Trades,
			TotalReturn:    stats.TotalReturn,
			MaxDrawdown:    stats.MaxDrawdown,
			SharpeRatio:    stats.SharpeRatio,
		}
	}

	return yaml.Marshal(s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOption(v optional.Option[float64]) string {
	if v.IsNone() {
		return ""
	}
	return formatFloat(v.TakeOr(0))
}
