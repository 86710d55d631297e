package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"WatchPulse/internal/domain/models"
	"WatchPulse/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

type nopMetrics struct{}

func (nopMetrics) RecordProviderRequest(provider, op, result string) {}
func (nopMetrics) RecordCacheLookup(kind string, hit bool)          {}
func (nopMetrics) RecordLastPrice(symbol string, price float64)     {}
func (nopMetrics) RecordAlertTriggered(symbol string)               {}
func (nopMetrics) RecordPollInterval(seconds float64)               {}
func (nopMetrics) RecordLatency(op string, seconds float64)         {}

// fakePrimary serves scripted quotes per symbol and counts invocations.
type fakePrimary struct {
	mu         sync.Mutex
	configured bool
	quotes     map[string]models.Quote
	errs       map[string]error
	calls      int
}

func (f *fakePrimary) Name() string     { return "finnhub" }
func (f *fakePrimary) Configured() bool { return f.configured }

func (f *fakePrimary) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if !f.configured {
		return models.Quote{}, models.ErrNotConfigured
	}
	if err, ok := f.errs[symbol]; ok {
		return models.Quote{}, err
	}
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return models.Quote{}, &models.UpstreamError{Provider: "finnhub", Reason: "unknown symbol"}
}

func (f *fakePrimary) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeFallback serves a scripted batch answer.
type fakeFallback struct {
	mu     sync.Mutex
	quotes map[string]models.Quote
	err    error
	calls  int
	asked  [][]string
}

func (f *fakeFallback) Name() string { return "yahoo" }

func (f *fakeFallback) FetchQuotes(ctx context.Context, syms []string) ([]models.Quote, error) {
	f.mu.Lock()
	f.calls++
	f.asked = append(f.asked, append([]string(nil), syms...))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Quote, 0, len(syms))
	for _, s := range syms {
		if q, ok := f.quotes[s]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// fakeCandles serves one scripted candle answer.
type fakeCandles struct {
	name    string
	candles []models.Candle
	err     error
	calls   int
}

func (f *fakeCandles) Name() string { return f.name }

func (f *fakeCandles) FetchCandles(ctx context.Context, symbol string, rng models.CandleRange) ([]models.Candle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

// manualScheduler captures scheduled callbacks so tests can fire them.
type manualScheduler struct {
	mu        sync.Mutex
	pending   func()
	delay     time.Duration
	cancelled bool
}

func (s *manualScheduler) Schedule(fn func(), delay time.Duration) CancelFunc {
	s.mu.Lock()
	s.pending = fn
	s.delay = delay
	s.cancelled = false
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.cancelled = true
		s.pending = nil
		s.mu.Unlock()
	}
}

// fire runs the pending callback synchronously, if any.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) lastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

func (s *manualScheduler) hasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func okQuote(symbol string, price, prev float64, source models.QuoteSource) models.Quote {
	return models.Quote{
		Symbol:    symbol,
		Price:     price,
		PrevClose: prev,
		Timestamp: 1700000000000,
		Source:    source,
		Status:    models.StatusOK,
	}
}
