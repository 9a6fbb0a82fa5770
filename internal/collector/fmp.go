package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/model"
)

const fmpBaseURL = "https://financialmodelingprep.com/api/v3"

// Values used when a profile or ratio row omits a risk input.
const (
	defaultBeta        = 1.0
	defaultDebtEquity  = 0.5
	defaultMarketCap   = 1e12
	defaultListingSize = 20
)

// FMPSource serves fundamentals, quotes and exchange listings from
// FinancialModelingPrep. It has no history.
type FMPSource struct {
	BaseURL string
	APIKey  string
	// TrimSuffix is removed from tickers before lookup, e.g. ".JK".
	TrimSuffix string
	// ListingLimit caps the listings returned by ListSymbols.
	ListingLimit int
	http         *httpClient
}

// NewFMPSource creates a FinancialModelingPrep source.
func NewFMPSource(apiKey, trimSuffix string, opts ClientOptions) *FMPSource {
	return &FMPSource{
		BaseURL:      fmpBaseURL,
		APIKey:       apiKey,
		TrimSuffix:   trimSuffix,
		ListingLimit: defaultListingSize,
		http:         newHTTPClient("fmp", opts),
	}
}

func (s *FMPSource) Name() string { return "fmp" }

type fmpProfile struct {
	Symbol      string   `json:"symbol"`
	CompanyName string   `json:"companyName"`
	Price       float64  `json:"price"`
	Beta        *float64 `json:"beta"`
	MktCap      *float64 `json:"mktCap"`
	PERatio     *float64 `json:"peRatio"`
}

type fmpGrowth struct {
	GrowthRevenue *float64 `json:"growthRevenue"`
}

type fmpRatios struct {
	PriceEarningsRatio *float64 `json:"priceEarningsRatio"`
	PriceToBookRatio   *float64 `json:"priceToBookRatio"`
	ReturnOnEquity     *float64 `json:"returnOnEquity"`
	NetProfitMargin    *float64 `json:"netProfitMargin"`
	DividendYield      *float64 `json:"dividendYield"`
	DebtEquityRatio    *float64 `json:"debtEquityRatio"`
}

type fmpQuote struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	MarketCap         float64 `json:"marketCap"`
	Timestamp         int64   `json:"timestamp"`
}

type fmpScreenerRow struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	MarketCap   float64 `json:"marketCap"`
	Price       float64 `json:"price"`
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func (s *FMPSource) symbol(ticker string) string {
	if s.TrimSuffix != "" {
		return strings.TrimSuffix(ticker, s.TrimSuffix)
	}
	return ticker
}

func (s *FMPSource) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", s.APIKey)
	return fmt.Sprintf("%s/%s?%s", s.BaseURL, path, query.Encode())
}

func (s *FMPSource) requireKey() error {
	if s.APIKey == "" {
		return fmt.Errorf("fmp: api key not set: %w", ErrUnavailable)
	}
	return nil
}

// FetchFundamentals combines the profile, annual ratios and quote of a ticker.
// Fractional ratios are converted to percent.
func (s *FMPSource) FetchFundamentals(ctx context.Context, ticker string) (*model.FundamentalSnapshot, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	sym := url.PathEscape(s.symbol(ticker))

	var profiles []fmpProfile
	if err := s.http.getJSON(ctx, s.endpoint("profile/"+sym, nil), &profiles); err != nil {
		return nil, fmt.Errorf("fmp profile %s: %w", ticker, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("fmp: no profile for %s: %w", ticker, ErrUnavailable)
	}
	profile := profiles[0]

	var ratios []fmpRatios
	if err := s.http.getJSON(ctx, s.endpoint("ratios/"+sym, url.Values{"period": {"annual"}}), &ratios); err != nil {
		return nil, fmt.Errorf("fmp ratios %s: %w", ticker, err)
	}
	var r fmpRatios
	if len(ratios) > 0 {
		r = ratios[0]
	}

	var quotes []fmpQuote
	if err := s.http.getJSON(ctx, s.endpoint("quote/"+sym, nil), &quotes); err != nil {
		return nil, fmt.Errorf("fmp quote %s: %w", ticker, err)
	}

	snap := &model.FundamentalSnapshot{
		Ticker:          ticker,
		CompanyName:     profile.CompanyName,
		Price:           profile.Price,
		PER:             valueOr(r.PriceEarningsRatio, 0),
		PBV:             valueOr(r.PriceToBookRatio, 0),
		ROE:             valueOr(r.ReturnOnEquity, 0) * 100,
		NPM:             valueOr(r.NetProfitMargin, 0) * 100,
		DividendYield:   valueOr(r.DividendYield, 0) * 100,
		Beta:            valueOr(profile.Beta, defaultBeta),
		DebtEquityRatio: valueOr(r.DebtEquityRatio, defaultDebtEquity),
		MarketCap:       valueOr(profile.MktCap, defaultMarketCap),
		IndustryPER:     valueOr(profile.PERatio, 0),
	}
	if len(quotes) > 0 {
		if quotes[0].Price > 0 {
			snap.Price = quotes[0].Price
		}
		snap.ChangePercent = quotes[0].ChangesPercentage
	}

	// revenue growth is optional
	var growth []fmpGrowth
	if err := s.http.getJSON(ctx, s.endpoint("income-statement-growth/"+sym, url.Values{"period": {"annual"}}), &growth); err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("fmp revenue growth unavailable")
	} else if len(growth) > 0 {
		snap.RevenueGrowth = valueOr(growth[0].GrowthRevenue, 0) * 100
	}
	return snap, nil
}

// FetchQuote returns the FMP real-time quote of a ticker.
func (s *FMPSource) FetchQuote(ctx context.Context, ticker string) (*model.Quote, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	var quotes []fmpQuote
	if err := s.http.getJSON(ctx, s.endpoint("quote/"+url.PathEscape(s.symbol(ticker)), nil), &quotes); err != nil {
		return nil, fmt.Errorf("fmp quote %s: %w", ticker, err)
	}
	if len(quotes) == 0 || quotes[0].Price <= 0 {
		return nil, fmt.Errorf("fmp: no quote for %s: %w", ticker, ErrUnavailable)
	}
	q := quotes[0]
	asOf := time.Now()
	if q.Timestamp > 0 {
		asOf = time.Unix(q.Timestamp, 0).UTC()
	}
	return &model.Quote{
		Ticker:        ticker,
		LastPrice:     q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		AsOf:          asOf,
		Source:        s.Name(),
	}, nil
}

// FetchHistory is not served by this source.
func (s *FMPSource) FetchHistory(context.Context, string, string) (*model.PriceSeries, error) {
	return nil, fmt.Errorf("fmp history: %w", ErrUnavailable)
}

// ListSymbols returns the largest listings of an exchange, by market cap
// descending, capped at ListingLimit.
func (s *FMPSource) ListSymbols(ctx context.Context, exchange string) ([]model.Listing, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	var rows []fmpScreenerRow
	if err := s.http.getJSON(ctx, s.endpoint("stock-screener", url.Values{"exchange": {exchange}}), &rows); err != nil {
		return nil, fmt.Errorf("fmp screener %s: %w", exchange, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fmp: no listings for %s: %w", exchange, ErrUnavailable)
	}
	listings := make([]model.Listing, 0, len(rows))
	for _, r := range rows {
		listings = append(listings, model.Listing{Symbol: r.Symbol, CompanyName: r.CompanyName, MarketCap: r.MarketCap, Price: r.Price})
	}
	sort.SliceStable(listings, func(i, j int) bool { return listings[i].MarketCap > listings[j].MarketCap })
	if s.ListingLimit > 0 && len(listings) > s.ListingLimit {
		listings = listings[:s.ListingLimit]
	}
	return listings, nil
}
