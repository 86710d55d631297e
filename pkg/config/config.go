package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"WatchPulse/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Quotes struct {
		MaxBatch  int      `yaml:"max_batch"`
		Allowlist []string `yaml:"allowlist"`
	} `yaml:"quotes"`
	Providers struct {
		Finnhub struct {
			APIKey  string        `yaml:"api_key"`
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"finnhub"`
		Yahoo struct {
			QuoteURL string        `yaml:"quote_url"`
			ChartURL string        `yaml:"chart_url"`
			Timeout  time.Duration `yaml:"timeout"`
		} `yaml:"yahoo"`
	} `yaml:"providers"`
	Poll struct {
		BaseInterval time.Duration `yaml:"base_interval"`
		MaxInterval  time.Duration `yaml:"max_interval"`
		BackoffStep  time.Duration `yaml:"backoff_step"`
	} `yaml:"poll"`
	Watchlist struct {
		Seed []string `yaml:"seed"`
	} `yaml:"watchlist"`
	Store struct {
		Type  string `yaml:"type"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"store"`
	Notify struct {
		Type  string `yaml:"type"`
		Kafka struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
	} `yaml:"notify"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing PRIMARY_API_KEY is not an error; it only means the primary
// provider is unavailable.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PRIMARY_API_KEY"); v != "" {
		c.Providers.Finnhub.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("CACHE_TTL_MS"); v != "" {
		if ms := util.ParseIntDefault(v, 0); ms > 0 {
			c.Cache.TTL = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("ALLOWLIST_SYMBOLS"); v != "" {
		c.Quotes.Allowlist = splitCSV(v)
	}
	if v := os.Getenv("WATCHLIST_SYMBOLS"); v != "" {
		c.Watchlist.Seed = splitCSV(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Notify.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Notify.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 60 * time.Second
	}
	if c.Quotes.MaxBatch == 0 {
		c.Quotes.MaxBatch = 50
	}
	if c.Providers.Finnhub.BaseURL == "" {
		c.Providers.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Providers.Finnhub.Timeout == 0 {
		c.Providers.Finnhub.Timeout = 10 * time.Second
	}
	if c.Providers.Yahoo.QuoteURL == "" {
		c.Providers.Yahoo.QuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	}
	if c.Providers.Yahoo.ChartURL == "" {
		c.Providers.Yahoo.ChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.Providers.Yahoo.Timeout == 0 {
		c.Providers.Yahoo.Timeout = 10 * time.Second
	}
	if c.Poll.BaseInterval == 0 {
		c.Poll.BaseInterval = 60 * time.Second
	}
	if c.Poll.MaxInterval == 0 {
		c.Poll.MaxInterval = 180 * time.Second
	}
	if c.Poll.BackoffStep == 0 {
		c.Poll.BackoffStep = 60 * time.Second
	}
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	if c.Notify.Type == "" {
		c.Notify.Type = "log"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Quotes.MaxBatch <= 0 {
		return fmt.Errorf("quotes.max_batch must be positive")
	}
	if c.Poll.BaseInterval <= 0 || c.Poll.MaxInterval < c.Poll.BaseInterval {
		return fmt.Errorf("poll intervals invalid: base=%s max=%s", c.Poll.BaseInterval, c.Poll.MaxInterval)
	}
	if c.Store.Type != "memory" && c.Store.Type != "redis" {
		return fmt.Errorf("store.type must be 'memory' or 'redis', got '%s'", c.Store.Type)
	}
	if c.Store.Type == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for redis store")
	}
	if c.Notify.Type != "log" && c.Notify.Type != "kafka" {
		return fmt.Errorf("notify.type must be 'log' or 'kafka', got '%s'", c.Notify.Type)
	}
	if c.Notify.Type == "kafka" {
		if len(c.Notify.Kafka.Brokers) == 0 {
			return fmt.Errorf("notify.kafka.brokers cannot be empty")
		}
		if c.Notify.Kafka.Topic == "" {
			return fmt.Errorf("notify.kafka.topic is required")
		}
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
