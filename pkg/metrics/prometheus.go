package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	alertsTriggered  *prometheus.CounterVec
	pollInterval     prometheus.Gauge
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watchpulse_provider_requests_total",
				Help: "Total upstream provider requests by operation and result",
			},
			[]string{"provider", "op", "result"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watchpulse_cache_lookups_total",
				Help: "Cache lookups by payload kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "watchpulse_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		alertsTriggered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watchpulse_alerts_triggered_total",
				Help: "Total alert rules triggered",
			},
			[]string{"symbol"},
		),
		pollInterval: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "watchpulse_poll_interval_seconds",
				Help: "Current adaptive polling interval",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "watchpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordProviderRequest records one upstream request outcome.
func (r *Recorder) RecordProviderRequest(provider, op, result string) {
	r.providerRequests.WithLabelValues(provider, op, result).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(kind, outcome).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordAlertTriggered records a fired alert rule.
func (r *Recorder) RecordAlertTriggered(symbol string) {
	r.alertsTriggered.WithLabelValues(symbol).Inc()
}

// RecordPollInterval records the controller's current interval.
func (r *Recorder) RecordPollInterval(seconds float64) {
	r.pollInterval.Set(seconds)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
