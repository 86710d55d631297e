package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"WatchPulse/internal/domain/models"
	domrepo "WatchPulse/internal/domain/repository"
	"WatchPulse/pkg/logger"
)

// AlertsUseCase manages one-shot price alert rules and evaluates incoming
// quotes against them.
type AlertsUseCase struct {
	store    domrepo.AlertStore
	notifier domrepo.Notifier
	metrics  domrepo.Metrics
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewAlertsUseCase(
	store domrepo.AlertStore,
	notifier domrepo.Notifier,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *AlertsUseCase {
	return &AlertsUseCase{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (uc *AlertsUseCase) List(ctx context.Context) ([]models.AlertRule, error) {
	rules, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []models.AlertRule{}
	}
	return rules, nil
}

// Create registers a new active rule and returns it with its assigned ID.
func (uc *AlertsUseCase) Create(ctx context.Context, symbol string, direction models.AlertDirection, target float64) (models.AlertRule, error) {
	rule := models.AlertRule{
		ID:        uc.newID(),
		Symbol:    symbol,
		Direction: direction,
		Target:    target,
		Active:    true,
		CreatedAt: uc.now().UnixMilli(),
	}
	if err := uc.store.Create(ctx, rule); err != nil {
		return models.AlertRule{}, err
	}
	return rule, nil
}

func (uc *AlertsUseCase) SetActive(ctx context.Context, id string, active bool) error {
	return uc.store.SetActive(ctx, id, active)
}

func (uc *AlertsUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, id)
}

// Evaluate checks every active rule against the given quotes. A matching
// rule triggers exactly once: it is deactivated before the notification goes
// out, so a second crossing cannot fire it again. Rules are independent;
// one rule's outcome never affects another's.
func (uc *AlertsUseCase) Evaluate(ctx context.Context, quotes []models.Quote) error {
	rules, err := uc.store.List(ctx)
	if err != nil {
		return err
	}

	bySymbol := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		if q.Valid() {
			bySymbol[q.Symbol] = q
		}
	}

	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		q, ok := bySymbol[rule.Symbol]
		if !ok || !rule.Matches(q) {
			continue
		}

		now := uc.now()
		if err := uc.store.MarkTriggered(ctx, rule.ID, now); err != nil {
			uc.log.Error("mark alert triggered", logger.String("rule_id", rule.ID), logger.Error(err))
			continue
		}
		uc.metrics.RecordAlertTriggered(rule.Symbol)

		notif := models.Notification{
			RuleID:    rule.ID,
			Symbol:    rule.Symbol,
			Direction: rule.Direction,
			Target:    rule.Target,
			Price:     q.Price,
			At:        now.UnixMilli(),
		}
		if err := uc.notifier.Notify(ctx, notif); err != nil {
			uc.log.Error("deliver alert notification", logger.String("rule_id", rule.ID), logger.Error(err))
		}
	}
	return nil
}
