package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"PortfolioSentinel/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// yahooRanges are the lookback periods the chart API accepts.
var yahooRanges = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// YahooSource serves quotes and daily history from the Yahoo Finance chart API.
// It has no fundamentals.
type YahooSource struct {
	BaseURL   string
	SymbolMap map[string]string // maps portfolio ticker to Yahoo symbol
	http      *httpClient
}

// NewYahooSource creates a Yahoo Finance source.
func NewYahooSource(opts ClientOptions) *YahooSource {
	return &YahooSource{
		BaseURL: yahooBaseURL,
		SymbolMap: map[string]string{
			"IHSG": "^JKSE",
			"JKSE": "^JKSE",
		},
		http: newHTTPClient("yahoo", opts),
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

func (s *YahooSource) yahooSymbol(ticker string) string {
	if mapped, ok := s.SymbolMap[ticker]; ok {
		return mapped
	}
	return ticker
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

func (s *YahooSource) fetchChart(ctx context.Context, ticker, interval, rng string) (*yahooChart, []model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		s.BaseURL, url.PathEscape(s.yahooSymbol(ticker)), interval, rng)

	var chart yahooChart
	if err := s.http.getJSON(ctx, u, &chart); err != nil {
		return nil, nil, err
	}
	if chart.Chart.Error != nil {
		return nil, nil, fmt.Errorf("yahoo api error: %s: %w", chart.Chart.Error.Description, ErrUnavailable)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("yahoo: no data returned for %s: %w", ticker, ErrUnavailable)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return &chart, bars, nil
}

// FetchHistory returns daily bars over period, e.g. "6mo" or "1y".
func (s *YahooSource) FetchHistory(ctx context.Context, ticker, period string) (*model.PriceSeries, error) {
	if period == "" {
		period = DefaultPeriod
	}
	if !yahooRanges[period] {
		return nil, fmt.Errorf("yahoo: unsupported period %q", period)
	}
	_, bars, err := s.fetchChart(ctx, ticker, "1d", period)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: no bars for %s: %w", ticker, ErrUnavailable)
	}
	return &model.PriceSeries{Ticker: ticker, Period: period, Bars: bars, FetchedAt: time.Now()}, nil
}

// FetchQuote returns the last traded price with its change against the previous close.
func (s *YahooSource) FetchQuote(ctx context.Context, ticker string) (*model.Quote, error) {
	chart, bars, err := s.fetchChart(ctx, ticker, "1d", "5d")
	if err != nil {
		return nil, err
	}
	meta := chart.Chart.Result[0].Meta

	last := meta.RegularMarketPrice
	if last == 0 && len(bars) > 0 {
		last = bars[len(bars)-1].Close
	}
	if last <= 0 {
		return nil, fmt.Errorf("yahoo: no price for %s: %w", ticker, ErrUnavailable)
	}

	prev := meta.PreviousClose
	if prev == 0 && len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	if prev == 0 {
		prev = meta.ChartPreviousClose
	}

	q := &model.Quote{Ticker: ticker, LastPrice: last, AsOf: time.Now(), Source: s.Name()}
	if meta.RegularMarketTime > 0 {
		q.AsOf = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	if prev > 0 {
		q.Change = last - prev
		q.ChangePercent = q.Change / prev * 100
	}
	return q, nil
}

// FetchFundamentals is not supported by the chart API.
func (s *YahooSource) FetchFundamentals(context.Context, string) (*model.FundamentalSnapshot, error) {
	return nil, fmt.Errorf("yahoo fundamentals: %w", ErrUnavailable)
}
