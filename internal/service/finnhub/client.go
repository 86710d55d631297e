// Package finnhub implements the primary (credentialed) market data
// provider.
package finnhub

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"WatchPulse/internal/domain/models"
	"WatchPulse/internal/service/ratelimit"
	xhttp "WatchPulse/pkg/http"
)

const providerName = "finnhub"

// Config holds Finnhub client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Requests per minute allowed against the upstream; 0 uses the free
	// tier limit.
	MaxRequestsPerMinute int
	Burst                int
}

// Client implements QuoteProvider and CandleProvider over the Finnhub REST
// API. Without an API key every fetch returns models.ErrNotConfigured.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	now     func() time.Time
}

// New creates a Finnhub client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://finnhub.io/api/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRequestsPerMinute == 0 {
		cfg.MaxRequestsPerMinute = 60
	}
	if cfg.Burst == 0 {
		cfg.Burst = 30
	}
	return &Client{
		cfg:     cfg,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: ratelimit.New(),
		now:     time.Now,
	}
}

func (c *Client) Name() string { return providerName }

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

type quotePayload struct {
	Current   *float64 `json:"c"`
	PrevClose *float64 `json:"pc"`
	At        *int64   `json:"t"` // unix seconds
}

// FetchQuote retrieves the latest quote for one symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if !c.Configured() {
		return models.Quote{}, models.ErrNotConfigured
	}
	if !c.allow() {
		return models.Quote{}, &models.UpstreamError{Provider: providerName, Reason: "rate limited"}
	}

	var payload quotePayload
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/quote", map[string][]string{
		"symbol": {symbol},
		"token":  {c.cfg.APIKey},
	}, &payload); err != nil {
		return models.Quote{}, err
	}

	// Fail closed on missing required numeric fields.
	if payload.Current == nil || payload.PrevClose == nil {
		return models.Quote{}, &models.UpstreamError{Provider: providerName, Reason: "invalid quote payload"}
	}

	ts := c.now().UnixMilli()
	if payload.At != nil && *payload.At > 0 {
		ts = *payload.At * 1000
	}
	return models.Quote{
		Symbol:    symbol,
		Price:     *payload.Current,
		PrevClose: *payload.PrevClose,
		Timestamp: ts,
		Source:    models.SourceFinnhub,
		Status:    models.StatusOK,
	}, nil
}

type candlePayload struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Open       []float64 `json:"o"`
	High       []float64 `json:"h"`
	Low        []float64 `json:"l"`
	Close      []float64 `json:"c"`
	Volume     []float64 `json:"v"`
}

// FetchCandles retrieves an intraday series. Range maps to a fixed
// resolution and a window ending now.
func (c *Client) FetchCandles(ctx context.Context, symbol string, rng models.CandleRange) ([]models.Candle, error) {
	if !c.Configured() {
		return nil, models.ErrNotConfigured
	}
	if !c.allow() {
		return nil, &models.UpstreamError{Provider: providerName, Reason: "rate limited"}
	}

	resolution := "1"
	window := 24 * time.Hour
	if rng == models.Range5Day {
		resolution = "5"
		window = 5 * 24 * time.Hour
	}
	to := c.now().Unix()
	from := c.now().Add(-window).Unix()

	var payload candlePayload
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/stock/candle", map[string][]string{
		"symbol":     {symbol},
		"resolution": {resolution},
		"from":       {strconv.FormatInt(from, 10)},
		"to":         {strconv.FormatInt(to, 10)},
		"token":      {c.cfg.APIKey},
	}, &payload); err != nil {
		return nil, err
	}

	// "no_data" is a legitimate empty result, not a failure.
	if payload.Status == "no_data" {
		return []models.Candle{}, nil
	}
	if payload.Status != "ok" || payload.Timestamps == nil {
		return nil, &models.UpstreamError{Provider: providerName, Reason: "invalid candle payload"}
	}

	candles := make([]models.Candle, 0, len(payload.Timestamps))
	for i, ts := range payload.Timestamps {
		if i >= len(payload.Open) || i >= len(payload.High) || i >= len(payload.Low) || i >= len(payload.Close) {
			return nil, &models.UpstreamError{Provider: providerName, Reason: "invalid candle payload"}
		}
		cd := models.Candle{
			Timestamp: ts * 1000,
			Open:      payload.Open[i],
			High:      payload.High[i],
			Low:       payload.Low[i],
			Close:     payload.Close[i],
		}
		if i < len(payload.Volume) {
			v := payload.Volume[i]
			cd.Volume = &v
		}
		candles = append(candles, cd)
	}
	return candles, nil
}

func (c *Client) getJSON(ctx context.Context, url string, query map[string][]string, dest interface{}) error {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: query,
	})
	if err != nil {
		return &models.UpstreamError{Provider: providerName, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.UpstreamError{Provider: providerName, Status: resp.StatusCode, Reason: "unexpected status"}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &models.UpstreamError{Provider: providerName, Reason: "decode payload", Err: err}
	}
	return nil
}

func (c *Client) allow() bool {
	return c.limiter.Allow(providerName, float64(c.cfg.Burst), float64(c.cfg.MaxRequestsPerMinute)/60.0)
}
