package main

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/analyzer"
	"PortfolioSentinel/internal/cache"
	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/recorder"
)

// app holds the wired components shared by the subcommands.
type app struct {
	analyzer *analyzer.Analyzer
	metrics  *metrics.Metrics
	recorder recorder.Recorder
	redis    *redis.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	m := metrics.New()
	src, err := newSource(cfg, m)
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", src.Name()).Msg("data source ready")

	a := &app{metrics: m}
	opts := []cache.Option{cache.WithTTL(cfg.CacheTTL()), cache.WithMetrics(m)}
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unreachable, using in-memory cache")
			client.Close()
		} else {
			a.redis = client
			opts = append(opts, cache.WithStore(cache.NewRedisStore(client)))
		}
	}

	a.recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			a.recorder = sr
		}
	}

	col := collector.NewCollector(src, cfg.Providers.Period)
	a.analyzer = analyzer.New(col, cache.New(src, opts...), a.recorder, m, cfg.Portfolio.Positions)
	return a, nil
}

// newSource picks the fixture file when configured, otherwise Yahoo for
// quotes and history plus FMP for fundamentals and listings when a key is set.
func newSource(cfg *config.Config, m *metrics.Metrics) (collector.DataSource, error) {
	if cfg.Providers.Fixture != "" {
		fx, err := collector.LoadFixture(cfg.Providers.Fixture)
		if err != nil {
			return nil, err
		}
		return fx, nil
	}
	opts := collector.ClientOptions{
		ProxyURL:          cfg.Proxy,
		Timeout:           cfg.ProviderTimeout(),
		RequestsPerSecond: cfg.Providers.RequestsPerSecond,
		Metrics:           m,
	}
	yahoo := collector.NewYahooSource(opts)
	router := &collector.Router{Quotes: yahoo, History: yahoo}
	if cfg.Providers.FMPAPIKey != "" {
		fmp := collector.NewFMPSource(cfg.Providers.FMPAPIKey, cfg.Providers.TrimSuffix, opts)
		router.Fundamentals = fmp
		router.Listings = fmp
	} else {
		log.Warn().Msg("FMP_API_KEY not set, fundamentals and screening disabled")
	}
	return router, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
