package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"WatchPulse/internal/domain/models"
	"WatchPulse/pkg/cache"
)

func newCandlesUC(t *testing.T, primary, fallback *fakeCandles) *CandlesUseCase {
	t.Helper()
	return NewCandlesUseCase(primary, fallback, cache.New(), time.Minute, nopMetrics{}, newTestLogger(t))
}

func someCandles() []models.Candle {
	return []models.Candle{{Timestamp: 1700000000000, Open: 10, High: 12, Low: 9, Close: 11}}
}

func TestGetCandlesPrimaryWins(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", candles: someCandles()}
	fallback := &fakeCandles{name: "yahoo"}
	uc := newCandlesUC(t, primary, fallback)

	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.Equal(t, models.SourceFinnhub, result.Source)
	require.Len(t, result.Candles, 1)
	require.Equal(t, 0, fallback.calls)
}

func TestGetCandlesEmptyPrimaryFallsThrough(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", candles: []models.Candle{}}
	fallback := &fakeCandles{name: "yahoo", candles: someCandles()}
	uc := newCandlesUC(t, primary, fallback)

	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.Equal(t, models.SourceYahoo, result.Source)
	require.Equal(t, 1, fallback.calls)
}

func TestGetCandlesPrimaryErrorFallsThrough(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", err: &models.UpstreamError{Provider: "finnhub", Reason: "boom"}}
	fallback := &fakeCandles{name: "yahoo", candles: someCandles()}
	uc := newCandlesUC(t, primary, fallback)

	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.Equal(t, models.SourceYahoo, result.Source)
}

func TestGetCandlesBothEmptyIsCleanNoneResult(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", candles: []models.Candle{}}
	fallback := &fakeCandles{name: "yahoo", candles: []models.Candle{}}
	uc := newCandlesUC(t, primary, fallback)

	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.Equal(t, models.SourceNone, result.Source)
	require.Empty(t, result.Candles)
	require.NotNil(t, result.Candles)
}

func TestGetCandlesBothRaisedCombinesReasons(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", err: &models.UpstreamError{Provider: "finnhub", Reason: "down"}}
	fallback := &fakeCandles{name: "yahoo", err: &models.UpstreamError{Provider: "yahoo", Reason: "also down"}}
	uc := newCandlesUC(t, primary, fallback)

	_, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.Error(t, err)
	require.Contains(t, err.Error(), "finnhub")
	require.Contains(t, err.Error(), "yahoo")
}

func TestGetCandlesUnconfiguredPrimaryDoesNotCountAsRaise(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", err: models.ErrNotConfigured}
	fallback := &fakeCandles{name: "yahoo", err: &models.UpstreamError{Provider: "yahoo", Reason: "down"}}
	uc := newCandlesUC(t, primary, fallback)

	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err, "only one provider raised")
	require.Equal(t, models.SourceNone, result.Source)
}

func TestGetCandlesEmptyResultIsCached(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", candles: []models.Candle{}}
	fallback := &fakeCandles{name: "yahoo", candles: []models.Candle{}}
	uc := newCandlesUC(t, primary, fallback)

	_, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)

	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.True(t, result.ServedFromCache)
	require.Equal(t, 1, primary.calls)
}

func TestGetCandlesCacheKeyedByRange(t *testing.T) {
	primary := &fakeCandles{name: "finnhub", candles: someCandles()}
	uc := newCandlesUC(t, primary, &fakeCandles{name: "yahoo"})

	_, err := uc.GetCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	result, err := uc.GetCandles(context.Background(), "AAPL", models.Range5Day)
	require.NoError(t, err)
	require.False(t, result.ServedFromCache)
	require.Equal(t, 2, primary.calls)
}
