package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"WatchPulse/internal/domain/models"
	domrepo "WatchPulse/internal/domain/repository"
	"WatchPulse/pkg/cache"
	"WatchPulse/pkg/logger"
)

// CandlesUseCase resolves intraday candle series with primary-then-fallback
// provider order behind the shared TTL cache.
type CandlesUseCase struct {
	primary  domrepo.CandleProvider
	fallback domrepo.CandleProvider
	cache    *cache.TTLCache
	ttl      time.Duration
	metrics  domrepo.Metrics
	log      *logger.Logger
}

func NewCandlesUseCase(
	primary domrepo.CandleProvider,
	fallback domrepo.CandleProvider,
	c *cache.TTLCache,
	ttl time.Duration,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *CandlesUseCase {
	return &CandlesUseCase{
		primary:  primary,
		fallback: fallback,
		cache:    c,
		ttl:      ttl,
		metrics:  metrics,
		log:      log,
	}
}

// GetCandles returns the series for one symbol and range. An empty primary
// answer falls through to the fallback; an empty answer from both is a clean
// result tagged source none. The call fails only when both providers raised.
func (uc *CandlesUseCase) GetCandles(ctx context.Context, symbol string, rng models.CandleRange) (models.CandlesResult, error) {
	key := candlesCacheKey(symbol, rng)
	if cached, ok := uc.cache.Get(key); ok {
		uc.metrics.RecordCacheLookup("candles", true)
		result := cached.(models.CandlesResult)
		result.ServedFromCache = true
		return result, nil
	}
	uc.metrics.RecordCacheLookup("candles", false)

	result := models.CandlesResult{Candles: []models.Candle{}, Source: models.SourceNone}

	primary, primaryErr := uc.fetch(ctx, uc.primary, symbol, rng)
	if len(primary) > 0 {
		result = models.CandlesResult{Candles: primary, Source: models.SourceFinnhub}
	} else {
		fallback, fallbackErr := uc.fetch(ctx, uc.fallback, symbol, rng)
		if len(fallback) > 0 {
			result = models.CandlesResult{Candles: fallback, Source: models.SourceYahoo}
		} else if primaryErr != nil && fallbackErr != nil {
			return models.CandlesResult{}, fmt.Errorf("all candle providers failed: %v; %v", primaryErr, fallbackErr)
		}
	}

	uc.cache.Set(key, result, uc.ttl)
	return result, nil
}

// fetch runs one provider. A missing or unconfigured provider is a silent
// zero-result; only transport and payload failures count as a raise.
func (uc *CandlesUseCase) fetch(ctx context.Context, p domrepo.CandleProvider, symbol string, rng models.CandleRange) ([]models.Candle, error) {
	if p == nil {
		return nil, nil
	}
	candles, err := p.FetchCandles(ctx, symbol, rng)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			return nil, nil
		}
		uc.metrics.RecordProviderRequest(p.Name(), "candles", "error")
		uc.log.Warn("candle fetch failed",
			logger.String("provider", p.Name()),
			logger.String("symbol", symbol),
			logger.String("range", string(rng)),
			logger.Error(err),
		)
		return nil, err
	}
	uc.metrics.RecordProviderRequest(p.Name(), "candles", "ok")
	return candles, nil
}

func candlesCacheKey(symbol string, rng models.CandleRange) string {
	return "candles:" + symbol + ":" + string(rng)
}
