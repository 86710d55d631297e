package models

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// QuoteSource identifies which upstream produced a quote.
type QuoteSource string

const (
	SourceFinnhub QuoteSource = "finnhub"
	SourceYahoo   QuoteSource = "yahoo"
	SourceCache   QuoteSource = "cache"
	// SourceUnknown marks synthesized placeholder quotes for symbols no
	// provider could answer.
	SourceUnknown QuoteSource = "unknown"
	// SourceNone marks an empty candle result.
	SourceNone QuoteSource = "none"
)

// QuoteStatus describes per-symbol fetch outcome.
type QuoteStatus string

const (
	StatusOK    QuoteStatus = "ok"
	StatusStale QuoteStatus = "stale"
	StatusError QuoteStatus = "error"
)

// Quote is a point-in-time price snapshot for one symbol. It is immutable
// after construction. When Status is StatusError, Price and PrevClose are
// NaN sentinels and must not be formatted or compared.
type Quote struct {
	Symbol    string      `json:"symbol"`
	Price     float64     `json:"price"`
	PrevClose float64     `json:"prevClose"`
	Timestamp int64       `json:"ts"` // unix milliseconds
	Source    QuoteSource `json:"source"`
	Status    QuoteStatus `json:"status"`
}

// Valid reports whether the quote carries usable price data.
func (q Quote) Valid() bool {
	return q.Status == StatusOK && !math.IsNaN(q.Price)
}

// quoteJSON mirrors Quote with nullable numeric fields so that NaN
// sentinels survive a JSON round trip as null.
type quoteJSON struct {
	Symbol    string      `json:"symbol"`
	Price     *float64    `json:"price"`
	PrevClose *float64    `json:"prevClose"`
	Timestamp int64       `json:"ts"`
	Source    QuoteSource `json:"source"`
	Status    QuoteStatus `json:"status"`
}

func (q Quote) MarshalJSON() ([]byte, error) {
	out := quoteJSON{
		Symbol:    q.Symbol,
		Timestamp: q.Timestamp,
		Source:    q.Source,
		Status:    q.Status,
	}
	if !math.IsNaN(q.Price) {
		p := q.Price
		out.Price = &p
	}
	if !math.IsNaN(q.PrevClose) {
		pc := q.PrevClose
		out.PrevClose = &pc
	}
	return json.Marshal(out)
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var in quoteJSON
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&in); err != nil {
		return err
	}
	q.Symbol = in.Symbol
	q.Timestamp = in.Timestamp
	q.Source = in.Source
	q.Status = in.Status
	q.Price = math.NaN()
	q.PrevClose = math.NaN()
	if in.Price != nil {
		q.Price = *in.Price
	}
	if in.PrevClose != nil {
		q.PrevClose = *in.PrevClose
	}
	return nil
}

// QuotesResult is the aggregator response for one symbol batch. Quote order
// matches the sanitized request order.
type QuotesResult struct {
	Quotes          []Quote `json:"quotes"`
	FetchedAt       int64   `json:"fetchedAt"` // unix milliseconds
	ServedFromCache bool    `json:"servedFromCache"`
}

// Candle is one OHLCV point. Volume is optional upstream and omitted when
// absent.
type Candle struct {
	Timestamp int64    `json:"t"` // unix milliseconds
	Open      float64  `json:"o"`
	High      float64  `json:"h"`
	Low       float64  `json:"l"`
	Close     float64  `json:"c"`
	Volume    *float64 `json:"v,omitempty"`
}

// CandleRange is the closed set of supported candle windows.
type CandleRange string

const (
	Range1Day CandleRange = "1d"
	Range5Day CandleRange = "5d"
)

// ParseCandleRange validates a range string.
func ParseCandleRange(s string) (CandleRange, bool) {
	switch CandleRange(s) {
	case Range1Day, Range5Day:
		return CandleRange(s), true
	}
	return "", false
}

// CandlesResult is the candle aggregator response.
type CandlesResult struct {
	Candles         []Candle    `json:"candles"`
	Source          QuoteSource `json:"source"`
	ServedFromCache bool        `json:"servedFromCache"`
}

// NowMillis returns the current wall clock in unix milliseconds.
func NowMillis() int64 { return time.Now().UnixMilli() }
