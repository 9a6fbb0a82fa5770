package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/model"
)

var asOf = time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)

// countingSource returns an increasing price on every call.
type countingSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	delay time.Duration
}

func (s *countingSource) FetchQuote(_ context.Context, ticker string) (*model.Quote, error) {
	n := s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail.Load() {
		return nil, errors.New("provider down")
	}
	return &model.Quote{Ticker: ticker, LastPrice: 1000 + float64(n), AsOf: asOf, Source: "test"}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestPriceCache_ReusesWithinTTL(t *testing.T) {
	src := &countingSource{}
	clock := &fakeClock{now: asOf}
	m := metrics.New()
	c := New(src, WithClock(clock.Now), WithMetrics(m))
	ctx := context.Background()

	first := c.Get(ctx, "BBCA.JK")
	assert.Equal(t, 1001.0, first.LastPrice)

	clock.Advance(59 * time.Second)
	assert.Equal(t, 1001.0, c.Get(ctx, "BBCA.JK").LastPrice)
	assert.Equal(t, int32(1), src.calls.Load())

	clock.Advance(time.Second)
	assert.Equal(t, 1002.0, c.Get(ctx, "BBCA.JK").LastPrice)
	assert.Equal(t, int32(2), src.calls.Load())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMisses))
}

func TestPriceCache_FailuresNotCached(t *testing.T) {
	src := &countingSource{}
	src.fail.Store(true)
	c := New(src)
	ctx := context.Background()

	q := c.Get(ctx, "TLKM.JK")
	assert.True(t, q.Unavailable)
	assert.False(t, q.Available())
	assert.Equal(t, "TLKM.JK", q.Ticker)

	src.fail.Store(false)
	q = c.Get(ctx, "TLKM.JK")
	assert.True(t, q.Available())
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestPriceCache_Invalidate(t *testing.T) {
	src := &countingSource{}
	c := New(src)
	ctx := context.Background()

	c.Get(ctx, "ASII.JK")
	c.Invalidate(ctx, "ASII.JK")
	c.Get(ctx, "ASII.JK")
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestPriceCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	src := &countingSource{delay: 20 * time.Millisecond}
	c := New(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 1001.0, c.Get(context.Background(), "BMRI.JK").LastPrice)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestRedisStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)
	ctx := context.Background()
	entry := Entry{Quote: model.Quote{Ticker: "BBRI.JK", LastPrice: 4550, AsOf: asOf, Source: "test"}, FetchedAt: asOf}
	payload, err := encodeEntry(entry)
	require.NoError(t, err)

	mock.ExpectGet(redisKeyPrefix + "BBRI.JK").RedisNil()
	_, ok, err := store.Get(ctx, "BBRI.JK")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet(redisKeyPrefix+"BBRI.JK", payload, DefaultTTL).SetVal("OK")
	require.NoError(t, store.Set(ctx, "BBRI.JK", entry, DefaultTTL))

	mock.ExpectGet(redisKeyPrefix + "BBRI.JK").SetVal(string(payload))
	got, ok, err := store.Get(ctx, "BBRI.JK")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4550.0, got.Quote.LastPrice)
	assert.True(t, got.FetchedAt.Equal(asOf))

	mock.ExpectDel(redisKeyPrefix + "BBRI.JK").SetVal(1)
	require.NoError(t, store.Delete(ctx, "BBRI.JK"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceCache_RedisErrorFallsThroughToSource(t *testing.T) {
	db, mock := redismock.NewClientMock()
	src := &countingSource{}
	clock := &fakeClock{now: asOf}
	c := New(src, WithStore(NewRedisStore(db)), WithClock(clock.Now))

	mock.ExpectGet(redisKeyPrefix + "UNVR.JK").SetErr(errors.New("connection refused"))
	mock.ExpectGet(redisKeyPrefix + "UNVR.JK").SetErr(errors.New("connection refused"))
	expected := Entry{Quote: model.Quote{Ticker: "UNVR.JK", LastPrice: 1001, AsOf: asOf, Source: "test"}, FetchedAt: asOf}
	payload, err := encodeEntry(expected)
	require.NoError(t, err)
	mock.ExpectSet(redisKeyPrefix+"UNVR.JK", payload, DefaultTTL).SetVal("OK")

	q := c.Get(context.Background(), "UNVR.JK")
	assert.Equal(t, 1001.0, q.LastPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
