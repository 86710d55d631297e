package repository

import (
	"context"
	"time"

	"WatchPulse/internal/domain/models"
)

// WatchlistStore holds the ordered set of watched symbols. Implementations
// must dedupe on Add and preserve insertion order.
type WatchlistStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, symbol string) ([]string, error)
	Remove(ctx context.Context, symbol string) ([]string, error)
}

// AlertStore persists alert rules. The engine only flips Active/TriggeredAt;
// removal is always an explicit user action.
type AlertStore interface {
	List(ctx context.Context) ([]models.AlertRule, error)
	Create(ctx context.Context, rule models.AlertRule) error
	SetActive(ctx context.Context, id string, active bool) error
	MarkTriggered(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// Notifier delivers alert notifications to an external sink.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
	Close() error
}

type Metrics interface {
	RecordProviderRequest(provider, op, result string)
	RecordCacheLookup(kind string, hit bool)
	RecordLastPrice(symbol string, price float64)
	RecordAlertTriggered(symbol string)
	RecordPollInterval(seconds float64)
	RecordLatency(op string, seconds float64)
}
