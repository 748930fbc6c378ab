// Package yahoo implements the price provider against the Yahoo
// Finance v8 chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/quantora/tristrat/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches equity and crypto-pair symbols like AAPL,
// BTC-USD, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(-[A-Za-z0-9]{1,6})?(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo implements the Yahoo Finance provider
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// Option configures the provider
type Option func(*Yahoo)

// WithBaseURL overrides the chart endpoint, mainly for tests
func WithBaseURL(url string) Option {
	return func(y *Yahoo) {
		y.baseURL = url
	}
}

// New creates a new Yahoo provider
func New(opts ...Option) *Yahoo {
	y := &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// FetchHistory fetches historical bars for the symbol over [start, end]
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (*core.PriceSeries, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, err)
	}

	url := fmt.Sprintf("%s/%s?interval=%s&period1=%d&period2=%d",
		y.baseURL, symbol, toYahooInterval(interval), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrCollectorFailed,
			fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 {
		return nil, y.noData(symbol, start, end)
	}

	r := result.Chart.Result[0]
	timestamps := r.Timestamp
	if len(r.Indicators.Quote) == 0 {
		return nil, y.noData(symbol, start, end)
	}
	quotes := r.Indicators.Quote[0]

	bars := make([]core.Bar, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // skip bars with missing data
		}
		bars = append(bars, core.Bar{
			Symbol:   symbol,
			Interval: interval,
			Open:     deref(quotes.Open, i),
			High:     deref(quotes.High, i),
			Low:      deref(quotes.Low, i),
			Close:    *quotes.Close[i],
			Volume:   int64(derefInt(quotes.Volume, i)),
			Time:     time.Unix(int64(ts), 0).UTC(),
		})
	}

	if len(bars) == 0 {
		return nil, y.noData(symbol, start, end)
	}

	return &core.PriceSeries{Symbol: symbol, Interval: interval, Bars: bars}, nil
}

// noData names the requested symbol and range so the failure is
// actionable at the process boundary.
func (y *Yahoo) noData(symbol string, start, end time.Time) error {
	return core.WrapError(core.ErrNoData,
		fmt.Errorf("no bars for %s between %s and %s",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02")))
}

func toYahooInterval(interval string) string {
	switch interval {
	case "1m", "5m", "1h", "1d":
		return interval
	default:
		return "1d"
	}
}

func deref(vals []*float64, i int) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

func derefInt(vals []*int, i int) int {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int     `json:"volume"`
}
