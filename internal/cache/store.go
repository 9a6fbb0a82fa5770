package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"

	"PortfolioSentinel/internal/model"
)

// Entry is a cached quote with the time it was fetched.
type Entry struct {
	Quote     model.Quote `msgpack:"quote"`
	FetchedAt time.Time   `msgpack:"fetched_at"`
}

// Store keeps cache entries by ticker.
type Store interface {
	Get(ctx context.Context, ticker string) (Entry, bool, error)
	Set(ctx context.Context, ticker string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, ticker string) error
}

// MemoryStore is a process-local Store. Entries are never evicted; staleness
// is decided by the cache from FetchedAt.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, ticker string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[ticker]
	return e, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, ticker string, e Entry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ticker] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, ticker)
	return nil
}

const redisKeyPrefix = "sentinel:quote:"

// RedisStore shares cache entries between processes. Values are msgpack
// encoded and expire with the cache TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: redisKeyPrefix}
}

func (s *RedisStore) key(ticker string) string { return s.prefix + ticker }

func (s *RedisStore) Get(ctx context.Context, ticker string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.key(ticker)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", ticker, err)
	}
	var e Entry
	if err := msgpack.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry %s: %w", ticker, err)
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, ticker string, e Entry, ttl time.Duration) error {
	raw, err := encodeEntry(e)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(ticker), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", ticker, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, ticker string) error {
	if err := s.client.Del(ctx, s.key(ticker)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", ticker, err)
	}
	return nil
}

func encodeEntry(e Entry) ([]byte, error) {
	raw, err := msgpack.Marshal(&e)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return raw, nil
}
