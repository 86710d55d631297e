// Package yahoo implements the keyless fallback provider over the public
// Yahoo Finance endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"WatchPulse/internal/domain/models"
	"WatchPulse/internal/service/ratelimit"
	xhttp "WatchPulse/pkg/http"
)

const providerName = "yahoo"

// Config holds Yahoo client configuration. No credential is required.
type Config struct {
	QuoteURL string
	ChartURL string
	Timeout  time.Duration
	// Requests per minute; the public endpoints throttle aggressively.
	MaxRequestsPerMinute int
	Burst                int
}

// Client implements BatchQuoteProvider and CandleProvider.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	now     func() time.Time
}

func New(cfg Config) *Client {
	if cfg.QuoteURL == "" {
		cfg.QuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	}
	if cfg.ChartURL == "" {
		cfg.ChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRequestsPerMinute == 0 {
		cfg.MaxRequestsPerMinute = 30
	}
	if cfg.Burst == 0 {
		cfg.Burst = 10
	}
	return &Client{
		cfg:     cfg,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: ratelimit.New(),
		now:     time.Now,
	}
}

func (c *Client) Name() string { return providerName }

type quoteEntry struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	RegularMarketPrev  *float64 `json:"regularMarketPreviousClose"`
	RegularMarketTime  *int64   `json:"regularMarketTime"` // unix seconds
}

type quoteEnvelope struct {
	QuoteResponse struct {
		Result []quoteEntry `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// FetchQuotes retrieves quotes for up to a batch of symbols in one call.
// Entries with missing price fields are dropped; callers treat absent
// symbols as unresolved.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if !c.allow() {
		return nil, &models.UpstreamError{Provider: providerName, Reason: "rate limited"}
	}

	var payload quoteEnvelope
	if err := c.getJSON(ctx, c.cfg.QuoteURL, map[string][]string{
		"symbols": {strings.Join(symbols, ",")},
	}, &payload); err != nil {
		return nil, err
	}
	if e := payload.QuoteResponse.Error; e != nil {
		return nil, &models.UpstreamError{Provider: providerName, Reason: e.Description}
	}

	quotes := make([]models.Quote, 0, len(payload.QuoteResponse.Result))
	for _, entry := range payload.QuoteResponse.Result {
		if entry.Symbol == "" || entry.RegularMarketPrice == nil || entry.RegularMarketPrev == nil {
			continue
		}
		ts := c.now().UnixMilli()
		if entry.RegularMarketTime != nil && *entry.RegularMarketTime > 0 {
			ts = *entry.RegularMarketTime * 1000
		}
		quotes = append(quotes, models.Quote{
			Symbol:    strings.ToUpper(entry.Symbol),
			Price:     *entry.RegularMarketPrice,
			PrevClose: *entry.RegularMarketPrev,
			Timestamp: ts,
			Source:    models.SourceYahoo,
			Status:    models.StatusOK,
		})
	}
	return quotes, nil
}

type chartEnvelope struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchCandles retrieves an intraday series from the chart endpoint. The
// upstream pads gaps with nulls; those become zero values rather than
// dropped bars so the series keeps its spacing.
func (c *Client) FetchCandles(ctx context.Context, symbol string, rng models.CandleRange) ([]models.Candle, error) {
	if !c.allow() {
		return nil, &models.UpstreamError{Provider: providerName, Reason: "rate limited"}
	}

	yrange, interval := "1d", "1m"
	if rng == models.Range5Day {
		yrange, interval = "5d", "5m"
	}

	var payload chartEnvelope
	if err := c.getJSON(ctx, c.cfg.ChartURL+"/"+symbol, map[string][]string{
		"range":    {yrange},
		"interval": {interval},
	}, &payload); err != nil {
		return nil, err
	}
	if e := payload.Chart.Error; e != nil {
		return nil, &models.UpstreamError{Provider: providerName, Reason: e.Description}
	}
	if len(payload.Chart.Result) == 0 {
		return []models.Candle{}, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []models.Candle{}, nil
	}
	series := result.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		cd := models.Candle{
			Timestamp: ts * 1000,
			Open:      deref(series.Open, i),
			High:      deref(series.High, i),
			Low:       deref(series.Low, i),
			Close:     deref(series.Close, i),
		}
		if i < len(series.Volume) && series.Volume[i] != nil {
			v := *series.Volume[i]
			cd.Volume = &v
		}
		candles = append(candles, cd)
	}
	return candles, nil
}

func deref(vals []*float64, i int) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

func (c *Client) getJSON(ctx context.Context, url string, query map[string][]string, dest interface{}) error {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: query,
		Headers:     map[string]string{"User-Agent": "Mozilla/5.0"},
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
