package repository

import (
	"context"

	"WatchPulse/internal/domain/models"
)

// QuoteProvider fetches one symbol's quote. Implementations must bound
// every call with their own HTTP timeout; a hung upstream surfaces as an
// UpstreamError, never a stall.
type QuoteProvider interface {
	Name() string
	// Configured reports whether the provider can be used at all. An
	// unconfigured provider returns models.ErrNotConfigured from fetches.
	Configured() bool
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// BatchQuoteProvider is the optional batched capability. Aggregators use it
// when a provider offers it and fall back to per-symbol fan-out otherwise.
type BatchQuoteProvider interface {
	Name() string
	FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// CandleProvider fetches an intraday candle series for a fixed range.
type CandleProvider interface {
	Name() string
	FetchCandles(ctx context.Context, symbol string, rng models.CandleRange) ([]models.Candle, error)
}
