package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/model"
)

// DefaultTTL is how long a fetched quote is reused.
const DefaultTTL = 60 * time.Second

// PriceCache memoizes the last traded price per ticker for a bounded time.
// Failed fetches are not cached.
type PriceCache struct {
	source  collector.QuoteSource
	store   Store
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

type Option func(*PriceCache)

func WithStore(s Store) Option { return func(c *PriceCache) { c.store = s } }

func WithTTL(ttl time.Duration) Option { return func(c *PriceCache) { c.ttl = ttl } }

func WithClock(now func() time.Time) Option { return func(c *PriceCache) { c.now = now } }

func WithMetrics(m *metrics.Metrics) Option { return func(c *PriceCache) { c.metrics = m } }

// New creates a PriceCache over source with an in-memory store and DefaultTTL.
func New(source collector.QuoteSource, opts ...Option) *PriceCache {
	c := &PriceCache{
		source: source,
		store:  NewMemoryStore(),
		ttl:    DefaultTTL,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the quote of ticker, reusing a cached one younger than the TTL.
// When the source fails it returns model.UnavailableQuote.
func (c *PriceCache) Get(ctx context.Context, ticker string) model.Quote {
	if q, ok := c.fresh(ctx, ticker); ok {
		c.metrics.CacheHit()
		return q
	}

	mu := c.keyLock(ticker)
	mu.Lock()
	defer mu.Unlock()

	// another caller may have refilled while we waited
	if q, ok := c.fresh(ctx, ticker); ok {
		c.metrics.CacheHit()
		return q
	}
	c.metrics.CacheMiss()

	q, err := c.source.FetchQuote(ctx, ticker)
	if err != nil || q == nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("price unavailable")
		return model.UnavailableQuote(ticker)
	}
	entry := Entry{Quote: *q, FetchedAt: c.now()}
	if err := c.store.Set(ctx, ticker, entry, c.ttl); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("failed to store cached price")
	}
	return entry.Quote
}

// Invalidate drops the cached quote of ticker.
func (c *PriceCache) Invalidate(ctx context.Context, ticker string) {
	if err := c.store.Delete(ctx, ticker); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("failed to invalidate cached price")
	}
}

func (c *PriceCache) fresh(ctx context.Context, ticker string) (model.Quote, bool) {
	e, ok, err := c.store.Get(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("cache read failed, refetching")
		return model.Quote{}, false
	}
	if !ok || c.now().Sub(e.FetchedAt) >= c.ttl {
		return model.Quote{}, false
	}
	return e.Quote, true
}

func (c *PriceCache) keyLock(ticker string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	mu, ok := c.locks[ticker]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[ticker] = mu
	}
	return mu
}
