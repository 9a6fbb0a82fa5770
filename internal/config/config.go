package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"PortfolioSentinel/internal/model"
)

// ErrInvalidConfig is returned by Validate and ValidateBot.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Providers struct {
		FMPAPIKey         string  `yaml:"fmp_api_key"`
		TrimSuffix        string  `yaml:"trim_suffix"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		Period            string  `yaml:"period"`
		// Fixture replaces every provider with a YAML fixture file.
		Fixture string `yaml:"fixture"`
	} `yaml:"providers"`
	Cache struct {
		TTLSeconds int    `yaml:"ttl_seconds"`
		RedisAddr  string `yaml:"redis_addr"`
	} `yaml:"cache"`
	Schedule struct {
		DailyCron  string `yaml:"daily_cron"`
		WeeklyCron string `yaml:"weekly_cron"`
	} `yaml:"schedule"`
	Ledger struct {
		File string `yaml:"file"`
	} `yaml:"ledger"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Portfolio struct {
		Positions []model.Position `yaml:"positions"`
		Budget    decimal.Decimal  `yaml:"budget"`
		Profile   string           `yaml:"profile"`
	} `yaml:"portfolio"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"FMP_API_KEY":        &c.Providers.FMPAPIKey,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"REDIS_ADDR":         &c.Cache.RedisAddr,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"LOG_LEVEL":          &c.Log.Level,
		"HTTPS_PROXY":        &c.Proxy,
		"CRON_DAILY":         &c.Schedule.DailyCron,
		"CRON_WEEKLY":        &c.Schedule.WeeklyCron,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
	if v := os.Getenv("SENTINEL_BUDGET"); v != "" {
		budget, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("parse SENTINEL_BUDGET %q: %w", v, err)
		}
		c.Portfolio.Budget = budget
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse CACHE_TTL_SECONDS %q: %w", v, err)
		}
		c.Cache.TTLSeconds = ttl
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Providers.TrimSuffix == "" {
		c.Providers.TrimSuffix = ".JK"
	}
	if c.Providers.RequestsPerSecond == 0 {
		c.Providers.RequestsPerSecond = 2
	}
	if c.Providers.TimeoutSeconds == 0 {
		c.Providers.TimeoutSeconds = 30
	}
	if c.Providers.Period == "" {
		c.Providers.Period = "1y"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 60
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 16 * * 1-5"
	}
	if c.Schedule.WeeklyCron == "" {
		c.Schedule.WeeklyCron = "0 0 9 * * 1"
	}
	if c.Ledger.File == "" {
		c.Ledger.File = "data/ledger.json"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/portfolio_sentinel.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Portfolio.Profile == "" {
		c.Portfolio.Profile = "Moderate"
	}
}

// CacheTTL returns the price cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ProviderTimeout returns the per-request provider timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSeconds) * time.Second
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Providers.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: providers.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Portfolio.Budget.IsNegative() {
		return fmt.Errorf("%w: portfolio.budget must not be negative", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Portfolio.Positions))
	for i, p := range c.Portfolio.Positions {
		if p.Ticker == "" {
			return fmt.Errorf("%w: portfolio.positions[%d].ticker is required", ErrInvalidConfig, i)
		}
		if seen[p.Ticker] {
			return fmt.Errorf("%w: duplicate position %s", ErrInvalidConfig, p.Ticker)
		}
		seen[p.Ticker] = true
		if p.Lots < 0 || p.AvgPrice.IsNegative() {
			return fmt.Errorf("%w: position %s has negative lots or price", ErrInvalidConfig, p.Ticker)
		}
	}
	return nil
}

// ValidateBot additionally checks the Telegram settings needed by the bot.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("%w: telegram.bot_token is required", ErrInvalidConfig)
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("%w: telegram.chat_id is required", ErrInvalidConfig)
	}
	return nil
}
