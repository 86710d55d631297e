package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"WatchPulse/internal/domain/models"
	"WatchPulse/pkg/cache"
)

func newQuotesUC(t *testing.T, primary *fakePrimary, fallback *fakeFallback, cfg QuotesConfig) *QuotesUseCase {
	t.Helper()
	if cfg.TTL == 0 {
		cfg.TTL = time.Minute
	}
	return NewQuotesUseCase(primary, fallback, cache.New(), cfg, nopMetrics{}, newTestLogger(t))
}

func TestGetQuotesPrimaryHappyPath(t *testing.T) {
	primary := &fakePrimary{configured: true, quotes: map[string]models.Quote{
		"AAPL": okQuote("AAPL", 189.5, 187.2, models.SourceFinnhub),
		"MSFT": okQuote("MSFT", 370.1, 365.0, models.SourceFinnhub),
	}}
	uc := newQuotesUC(t, primary, &fakeFallback{}, QuotesConfig{})

	result, err := uc.GetQuotes(context.Background(), []string{"aapl", "MSFT"})
	require.NoError(t, err)
	require.False(t, result.ServedFromCache)
	require.Len(t, result.Quotes, 2)
	require.Equal(t, "AAPL", result.Quotes[0].Symbol)
	require.Equal(t, "MSFT", result.Quotes[1].Symbol)
	require.Equal(t, models.StatusOK, result.Quotes[0].Status)
}

func TestGetQuotesSecondCallServedFromCache(t *testing.T) {
	primary := &fakePrimary{configured: true, quotes: map[string]models.Quote{
		"TSLA": okQuote("TSLA", 10, 9, models.SourceFinnhub),
	}}
	uc := newQuotesUC(t, primary, &fakeFallback{}, QuotesConfig{})

	first, err := uc.GetQuotes(context.Background(), []string{"TSLA"})
	require.NoError(t, err)
	require.False(t, first.ServedFromCache)

	second, err := uc.GetQuotes(context.Background(), []string{"TSLA"})
	require.NoError(t, err)
	require.True(t, second.ServedFromCache)
	require.Equal(t, first.Quotes, second.Quotes)
	require.Equal(t, 1, primary.callCount(), "primary invoked exactly once total")
}

func TestGetQuotesCacheKeyIgnoresOrder(t *testing.T) {
	primary := &fakePrimary{configured: true, quotes: map[string]models.Quote{
		"AAPL": okQuote("AAPL", 1, 1, models.SourceFinnhub),
		"MSFT": okQuote("MSFT", 2, 2, models.SourceFinnhub),
	}}
	uc := newQuotesUC(t, primary, &fakeFallback{}, QuotesConfig{})

	_, err := uc.GetQuotes(context.Background(), []string{"MSFT", "AAPL"})
	require.NoError(t, err)

	result, err := uc.GetQuotes(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.True(t, result.ServedFromCache)
	// Cached payload keeps its own order; positional mapping follows the
	// cached result.
	require.Equal(t, "MSFT", result.Quotes[0].Symbol)
}

func TestGetQuotesFallbackOnly(t *testing.T) {
	primary := &fakePrimary{configured: false}
	fallback := &fakeFallback{quotes: map[string]models.Quote{
		"AAPL": okQuote("AAPL", 190.1, 188.5, models.SourceYahoo),
	}}
	uc := newQuotesUC(t, primary, fallback, QuotesConfig{})

	result, err := uc.GetQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	require.Len(t, result.Quotes, 1)
	require.Equal(t, models.SourceYahoo, result.Quotes[0].Source)
	require.Equal(t, models.StatusOK, result.Quotes[0].Status)
	require.Equal(t, 190.1, result.Quotes[0].Price)
	require.Equal(t, 0, primary.callCount(), "unconfigured primary is skipped")
}

func TestGetQuotesPartialPrimaryFailureFallsBack(t *testing.T) {
	primary := &fakePrimary{configured: true,
		quotes: map[string]models.Quote{"AAPL": okQuote("AAPL", 189.5, 187.2, models.SourceFinnhub)},
		errs:   map[string]error{"MSFT": &models.UpstreamError{Provider: "finnhub", Status: 500, Reason: "boom"}},
	}
	fallback := &fakeFallback{quotes: map[string]models.Quote{
		"MSFT": okQuote("MSFT", 370.1, 365.0, models.SourceYahoo),
	}}
	uc := newQuotesUC(t, primary, fallback, QuotesConfig{})

	result, err := uc.GetQuotes(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Equal(t, models.SourceFinnhub, result.Quotes[0].Source)
	require.Equal(t, models.SourceYahoo, result.Quotes[1].Source)
	require.Equal(t, [][]string{{"MSFT"}}, fallback.asked, "only unresolved symbols go to fallback")
}

func TestGetQuotesSynthesizesErrorQuotes(t *testing.T) {
	primary := &fakePrimary{configured: false}
	fallback := &fakeFallback{err: &models.UpstreamError{Provider: "yahoo", Reason: "down"}}
	uc := newQuotesUC(t, primary, fallback, QuotesConfig{})

	result, err := uc.GetQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err, "upstream failure never fails the call")
	require.Len(t, result.Quotes, 1)
	q := result.Quotes[0]
	require.Equal(t, models.StatusError, q.Status)
	require.Equal(t, models.SourceUnknown, q.Source)
	require.True(t, math.IsNaN(q.Price))
	require.True(t, math.IsNaN(q.PrevClose))
}

func TestGetQuotesAllowlistFiltersSilently(t *testing.T) {
	primary := &fakePrimary{configured: true, quotes: map[string]models.Quote{
		"AAPL": okQuote("AAPL", 1, 1, models.SourceFinnhub),
	}}
	uc := newQuotesUC(t, primary, &fakeFallback{}, QuotesConfig{Allowlist: []string{"AAPL"}})

	result, err := uc.GetQuotes(context.Background(), []string{"AAPL", "EVIL"})
	require.NoError(t, err)
	require.Len(t, result.Quotes, 1)
	require.Equal(t, "AAPL", result.Quotes[0].Symbol)
}

func TestGetQuotesEmptyAfterFilterReturnsEmpty(t *testing.T) {
	primary := &fakePrimary{configured: true}
	uc := newQuotesUC(t, primary, &fakeFallback{}, QuotesConfig{Allowlist: []string{"AAPL"}})

	result, err := uc.GetQuotes(context.Background(), []string{"EVIL"})
	require.NoError(t, err)
	require.Empty(t, result.Quotes)
	require.False(t, result.ServedFromCache)
	require.Equal(t, 0, primary.callCount())
}

func TestGetQuotesBatchCeiling(t *testing.T) {
	uc := newQuotesUC(t, &fakePrimary{}, &fakeFallback{}, QuotesConfig{})

	syms := make([]string, 51)
	for i := range syms {
		syms[i] = fmt.Sprintf("S%d", i)
	}
	_, err := uc.GetQuotes(context.Background(), syms)
	var tooMany *models.TooManySymbolsError
	require.ErrorAs(t, err, &tooMany)
	require.Equal(t, 50, tooMany.Max)
	require.Equal(t, 51, tooMany.Got)
}

func TestGetQuotesInvalidSymbolsDropped(t *testing.T) {
	primary := &fakePrimary{configured: true, quotes: map[string]models.Quote{
		"AAPL": okQuote("AAPL", 1, 1, models.SourceFinnhub),
	}}
	uc := newQuotesUC(t, primary, &fakeFallback{}, QuotesConfig{})

	result, err := uc.GetQuotes(context.Background(), []string{"AAPL", "WAY_TOO_LONG_SYMBOL", "b@d"})
	require.NoError(t, err)
	require.Len(t, result.Quotes, 1)
}
