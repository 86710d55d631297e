package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"WatchPulse/internal/domain/repository"
	"WatchPulse/internal/handler/api"
	internalrepo "WatchPulse/internal/repository"
	"WatchPulse/internal/service/finnhub"
	"WatchPulse/internal/service/yahoo"
	"WatchPulse/internal/usecase"
	"WatchPulse/pkg/cache"
	"WatchPulse/pkg/config"
	pkgkafka "WatchPulse/pkg/kafka"
	"WatchPulse/pkg/logger"
	"WatchPulse/pkg/metrics"
	"WatchPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the shared TTL cache.
func ProvideCache() *cache.TTLCache {
	return cache.New()
}

// ProvideRedisClient creates a Redis client when the redis store is
// configured; nil otherwise.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Store.Type != "redis" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Store.Redis.Addr,
		Password: cfg.Store.Redis.Password,
		DB:       cfg.Store.Redis.DB,
	})
}

// ProvideWatchlistStore selects the configured watchlist backing.
func ProvideWatchlistStore(cfg *config.Config, rdb *redis.Client) repository.WatchlistStore {
	if cfg.Store.Type == "redis" {
		return internalrepo.NewRedisWatchlist(rdb)
	}
	return internalrepo.NewMemoryWatchlist(cfg.Watchlist.Seed)
}

// ProvideAlertStore selects the configured alert rule backing.
func ProvideAlertStore(cfg *config.Config, rdb *redis.Client) repository.AlertStore {
	if cfg.Store.Type == "redis" {
		return internalrepo.NewRedisAlerts(rdb)
	}
	return internalrepo.NewMemoryAlerts()
}

// ProvideNotifier selects the alert notification sink.
func ProvideNotifier(cfg *config.Config, log *logger.Logger) (repository.Notifier, error) {
	if cfg.Notify.Type != "kafka" {
		return internalrepo.NewLogNotifier(log), nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Notify.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Notify.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Notify.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Notify.Kafka.WriteTimeout, 0),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaNotifier(producer, cfg.Notify.Kafka.Topic), nil
}

// ProvideFinnhubClient creates the primary provider client.
func ProvideFinnhubClient(cfg *config.Config) *finnhub.Client {
	return finnhub.New(finnhub.Config{
		APIKey:  cfg.Providers.Finnhub.APIKey,
		BaseURL: cfg.Providers.Finnhub.BaseURL,
		Timeout: cfg.Providers.Finnhub.Timeout,
	})
}

// ProvideYahooClient creates the fallback provider client.
func ProvideYahooClient(cfg *config.Config) *yahoo.Client {
	return yahoo.New(yahoo.Config{
		QuoteURL: cfg.Providers.Yahoo.QuoteURL,
		ChartURL: cfg.Providers.Yahoo.ChartURL,
		Timeout:  cfg.Providers.Yahoo.Timeout,
	})
}

// ProvideQuotesUseCase creates the quote aggregator.
func ProvideQuotesUseCase(
	primary *finnhub.Client,
	fallback *yahoo.Client,
	c *cache.TTLCache,
	cfg *config.Config,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.QuotesUseCase {
	return usecase.NewQuotesUseCase(primary, fallback, c, usecase.QuotesConfig{
		TTL:       cfg.Cache.TTL,
		Allowlist: cfg.Quotes.Allowlist,
		MaxBatch:  cfg.Quotes.MaxBatch,
	}, m, log)
}

// ProvideCandlesUseCase creates the candle aggregator.
func ProvideCandlesUseCase(
	primary *finnhub.Client,
	fallback *yahoo.Client,
	c *cache.TTLCache,
	cfg *config.Config,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(primary, fallback, c, cfg.Cache.TTL, m, log)
}

// ProvideAlertsUseCase creates the alert engine.
func ProvideAlertsUseCase(
	store repository.AlertStore,
	notifier repository.Notifier,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.AlertsUseCase {
	return usecase.NewAlertsUseCase(store, notifier, m, log)
}

// ProvidePoller creates the polling controller. Each cycle refreshes the
// watchlist quotes and feeds them to the alert engine.
func ProvidePoller(
	watchlist repository.WatchlistStore,
	quotes *usecase.QuotesUseCase,
	alerts *usecase.AlertsUseCase,
	cfg *config.Config,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Poller {
	fetch := usecase.NewRefreshCycle(quotes, alerts)
	return usecase.NewPoller(watchlist, fetch, usecase.NewTimerScheduler(), usecase.PollerConfig{
		BaseInterval: cfg.Poll.BaseInterval,
		MaxInterval:  cfg.Poll.MaxInterval,
		BackoffStep:  cfg.Poll.BackoffStep,
	}, m, log)
}

// ProvideRouter bundles HTTP handlers.
func ProvideRouter(
	log *logger.Logger,
	quotes *usecase.QuotesUseCase,
	candles *usecase.CandlesUseCase,
	watchlist repository.WatchlistStore,
	alerts *usecase.AlertsUseCase,
	poller *usecase.Poller,
) *api.Router {
	market := api.NewMarketHandler(log, quotes, candles)
	mgmt := api.NewManagementHandler(log, watchlist, alerts, poller)
	return api.NewRouter(market, mgmt)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	router *api.Router,
	poller *usecase.Poller,
	notifier repository.Notifier,
) *server.App {
	return server.New(cfg, log, router, poller, notifier)
}
