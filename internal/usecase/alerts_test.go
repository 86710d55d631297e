package usecase

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"WatchPulse/internal/domain/models"
	"WatchPulse/internal/repository"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	fail error
}

func (n *captureNotifier) Notify(ctx context.Context, notif models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, notif)
	return nil
}

func (n *captureNotifier) Close() error { return nil }

func newAlertsUC(t *testing.T) (*AlertsUseCase, *repository.MemoryAlerts, *captureNotifier) {
	t.Helper()
	store := repository.NewMemoryAlerts()
	notifier := &captureNotifier{}
	uc := NewAlertsUseCase(store, notifier, nopMetrics{}, newTestLogger(t))
	return uc, store, notifier
}

func TestAlertTriggersExactlyOnce(t *testing.T) {
	ctx := context.Background()
	uc, store, notifier := newAlertsUC(t)

	rule, err := uc.Create(ctx, "AAPL", models.DirectionAbove, 150)
	require.NoError(t, err)

	require.NoError(t, uc.Evaluate(ctx, []models.Quote{okQuote("AAPL", 150, 149, models.SourceFinnhub)}))
	require.Len(t, notifier.sent, 1, "price == target triggers an above rule")
	require.Equal(t, rule.ID, notifier.sent[0].RuleID)
	require.Equal(t, 150.0, notifier.sent[0].Price)

	rules, err := store.List(ctx)
	require.NoError(t, err)
	require.False(t, rules[0].Active)
	require.NotNil(t, rules[0].TriggeredAt)

	// A second crossing must not re-trigger the now-inactive rule.
	require.NoError(t, uc.Evaluate(ctx, []models.Quote{okQuote("AAPL", 151, 150, models.SourceFinnhub)}))
	require.Len(t, notifier.sent, 1)
}

func TestAlertBelowDirection(t *testing.T) {
	ctx := context.Background()
	uc, _, notifier := newAlertsUC(t)

	_, err := uc.Create(ctx, "TSLA", models.DirectionBelow, 200)
	require.NoError(t, err)

	require.NoError(t, uc.Evaluate(ctx, []models.Quote{okQuote("TSLA", 205, 210, models.SourceFinnhub)}))
	require.Empty(t, notifier.sent)

	require.NoError(t, uc.Evaluate(ctx, []models.Quote{okQuote("TSLA", 199.5, 205, models.SourceFinnhub)}))
	require.Len(t, notifier.sent, 1)
}

func TestAlertIgnoresErrorQuotes(t *testing.T) {
	ctx := context.Background()
	uc, _, notifier := newAlertsUC(t)

	_, err := uc.Create(ctx, "AAPL", models.DirectionAbove, 1)
	require.NoError(t, err)

	bad := models.Quote{
		Symbol: "AAPL", Price: math.NaN(), PrevClose: math.NaN(),
		Source: models.SourceUnknown, Status: models.StatusError,
	}
	require.NoError(t, uc.Evaluate(ctx, []models.Quote{bad}))
	require.Empty(t, notifier.sent)
}

func TestAlertRulesEvaluateIndependently(t *testing.T) {
	ctx := context.Background()
	uc, store, notifier := newAlertsUC(t)

	_, err := uc.Create(ctx, "AAPL", models.DirectionAbove, 100)
	require.NoError(t, err)
	_, err = uc.Create(ctx, "AAPL", models.DirectionAbove, 120)
	require.NoError(t, err)
	_, err = uc.Create(ctx, "MSFT", models.DirectionBelow, 300)
	require.NoError(t, err)

	quotes := []models.Quote{
		okQuote("AAPL", 130, 128, models.SourceFinnhub),
		okQuote("MSFT", 310, 305, models.SourceFinnhub),
	}
	require.NoError(t, uc.Evaluate(ctx, quotes))
	require.Len(t, notifier.sent, 2, "both AAPL rules fire, MSFT rule does not")

	rules, err := store.List(ctx)
	require.NoError(t, err)
	require.True(t, rules[2].Active, "untriggered rule stays active")
}

func TestAlertCreateAssignsIDAndDefaults(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newAlertsUC(t)
	uc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	uc.newID = func() string { return "fixed-id" }

	rule, err := uc.Create(ctx, "AAPL", models.DirectionAbove, 150)
	require.NoError(t, err)
	require.Equal(t, "fixed-id", rule.ID)
	require.True(t, rule.Active)
	require.Equal(t, int64(1700000000000), rule.CreatedAt)
	require.Nil(t, rule.TriggeredAt)
}

func TestAlertListNeverNil(t *testing.T) {
	uc, _, _ := newAlertsUC(t)
	rules, err := uc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rules)
	require.Empty(t, rules)
}
