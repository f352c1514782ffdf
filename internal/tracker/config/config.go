package config

import (
	"time"

	"memecoin-radar/pkg/config"
)

// CoinGecko holds the configuration for the CoinGecko market-data API.
type CoinGecko struct {
	BaseURL             string `mapstructure:"base_url"`
	LookbackDays        int    `mapstructure:"lookback_days"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Twitter holds the configuration for the Twitter recent-search API.
type Twitter struct {
	BaseURL             string `mapstructure:"base_url"`
	BearerToken         string `mapstructure:"bearer_token"`
	MaxResults          int    `mapstructure:"max_results"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Reddit holds the configuration for the Reddit RSS search feed.
type Reddit struct {
	BaseURL string `mapstructure:"base_url"`
	Limit   int    `mapstructure:"limit"`
}

// Tracker holds scoring-engine settings.
type Tracker struct {
	SentimentWindowDays int           `mapstructure:"sentiment_window_days"`
	IndicatorCacheTTL   time.Duration `mapstructure:"indicator_cache_ttl"`
	SentimentCacheTTL   time.Duration `mapstructure:"sentiment_cache_ttl"`
	BatchUpdateDelay    time.Duration `mapstructure:"batch_update_delay"`
	TopPredictionsLimit int           `mapstructure:"top_predictions_limit"`
}

// Worker holds the batch worker settings.
type Worker struct {
	RedisStreamTimeout time.Duration `mapstructure:"redis_stream_timeout"`
	RefreshCronSpec    string        `mapstructure:"refresh_cron_spec"`
}

// Config holds the full configuration for the tracker services.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	CoinGecko CoinGecko       `mapstructure:"coingecko"`
	Twitter   Twitter         `mapstructure:"twitter"`
	Reddit    Reddit          `mapstructure:"reddit"`
	Tracker   Tracker         `mapstructure:"tracker"`
	Worker    Worker          `mapstructure:"worker"`
}

// Load loads the tracker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Tracker.SentimentWindowDays == 0 {
		cfg.Tracker.SentimentWindowDays = 7
	}
	if cfg.Tracker.IndicatorCacheTTL == 0 {
		cfg.Tracker.IndicatorCacheTTL = 5 * time.Minute
	}
	if cfg.Tracker.SentimentCacheTTL == 0 {
		cfg.Tracker.SentimentCacheTTL = 5 * time.Minute
	}
	if cfg.Tracker.BatchUpdateDelay == 0 {
		cfg.Tracker.BatchUpdateDelay = 500 * time.Millisecond
	}
	if cfg.Tracker.TopPredictionsLimit == 0 {
		cfg.Tracker.TopPredictionsLimit = 10
	}
	if cfg.CoinGecko.LookbackDays == 0 {
		cfg.CoinGecko.LookbackDays = 30
	}
	if cfg.Worker.RedisStreamTimeout == 0 {
		cfg.Worker.RedisStreamTimeout = 10 * time.Minute
	}
}
