package finnhub

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"WatchPulse/internal/domain/models"
	"WatchPulse/internal/service/ratelimit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestFetchQuote(t *testing.T) {
	var gotPath, gotSymbol, gotToken string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{"c": 189.5, "pc": 187.2, "t": 1700000000}`))
	})

	q, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "/quote", gotPath)
	require.Equal(t, "AAPL", gotSymbol)
	require.Equal(t, "test-key", gotToken)
	require.Equal(t, "AAPL", q.Symbol)
	require.Equal(t, 189.5, q.Price)
	require.Equal(t, 187.2, q.PrevClose)
	require.Equal(t, int64(1700000000000), q.Timestamp)
	require.Equal(t, models.SourceFinnhub, q.Source)
	require.Equal(t, models.StatusOK, q.Status)
}

func TestFetchQuoteMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 189.5}`))
	})

	_, err := c.FetchQuote(context.Background(), "AAPL")
	var ue *models.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "finnhub", ue.Provider)
}

func TestFetchQuoteUpstreamStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchQuote(context.Background(), "AAPL")
	var ue *models.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusTooManyRequests, ue.Status)
}

func TestFetchQuoteWithoutKey(t *testing.T) {
	c := New(Config{})
	require.False(t, c.Configured())

	_, err := c.FetchQuote(context.Background(), "AAPL")
	require.True(t, errors.Is(err, models.ErrNotConfigured))
}

func TestFetchQuoteRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 1, "pc": 1, "t": 1}`))
	})
	c.cfg.Burst = 1
	c.cfg.MaxRequestsPerMinute = 0
	c.limiter = ratelimit.New()

	_, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	_, err = c.FetchQuote(context.Background(), "AAPL")
	var ue *models.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "rate limited", ue.Reason)
}

func TestFetchCandles(t *testing.T) {
	var gotResolution string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotResolution = r.URL.Query().Get("resolution")
		w.Write([]byte(`{"s":"ok","t":[1700000000,1700000060],"o":[10,11],"h":[12,13],"l":[9,10],"c":[11,12],"v":[100,200]}`))
	})
	c.now = func() time.Time { return time.Unix(1700086400, 0) }

	candles, err := c.FetchCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.Equal(t, "1", gotResolution)
	require.Len(t, candles, 2)
	require.Equal(t, int64(1700000000000), candles[0].Timestamp)
	require.Equal(t, 10.0, candles[0].Open)
	require.Equal(t, 12.0, candles[0].High)
	require.Equal(t, 9.0, candles[0].Low)
	require.Equal(t, 11.0, candles[0].Close)
	require.NotNil(t, candles[0].Volume)
	require.Equal(t, 100.0, *candles[0].Volume)
}

func TestFetchCandlesFiveDayResolution(t *testing.T) {
	var gotResolution string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotResolution = r.URL.Query().Get("resolution")
		w.Write([]byte(`{"s":"ok","t":[],"o":[],"h":[],"l":[],"c":[],"v":[]}`))
	})

	_, err := c.FetchCandles(context.Background(), "AAPL", models.Range5Day)
	require.NoError(t, err)
	require.Equal(t, "5", gotResolution)
}

func TestFetchCandlesNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"no_data"}`))
	})

	candles, err := c.FetchCandles(context.Background(), "AAPL", models.Range1Day)
	require.NoError(t, err)
	require.Empty(t, candles)
}

func TestFetchCandlesBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"error"}`))
	})

	_, err := c.FetchCandles(context.Background(), "AAPL", models.Range1Day)
	var ue *models.UpstreamError
	require.ErrorAs(t, err, &ue)
}

func TestQuoteTimestampFallsBackToNow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 5, "pc": 4}`))
	})
	c.now = func() time.Time { return time.UnixMilli(1234567890123) }

	q, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, int64(1234567890123), q.Timestamp)
	require.False(t, math.IsNaN(q.Price))
}
