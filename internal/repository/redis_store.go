package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"WatchPulse/internal/domain/models"
)

const (
	watchlistKey = "watchpulse:watchlist"
	alertsKey    = "watchpulse:alerts"
)

// RedisWatchlist persists the watched symbols as a single JSON array so the
// list survives restarts. Order and dedupe semantics match MemoryWatchlist.
type RedisWatchlist struct {
	client *redis.Client
}

func NewRedisWatchlist(client *redis.Client) *RedisWatchlist {
	return &RedisWatchlist{client: client}
}

func (w *RedisWatchlist) List(ctx context.Context) ([]string, error) {
	return w.load(ctx)
}

func (w *RedisWatchlist) Add(ctx context.Context, symbol string) ([]string, error) {
	symbols, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range symbols {
		if existing == symbol {
			return symbols, nil
		}
	}
	symbols = append(symbols, symbol)
	if err := w.save(ctx, symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

func (w *RedisWatchlist) Remove(ctx context.Context, symbol string) ([]string, error) {
	symbols, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	out := symbols[:0]
	for _, existing := range symbols {
		if existing != symbol {
			out = append(out, existing)
		}
	}
	if err := w.save(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *RedisWatchlist) load(ctx context.Context) ([]string, error) {
	raw, err := w.client.Get(ctx, watchlistKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	var symbols []string
	if err := json.Unmarshal([]byte(raw), &symbols); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}
	return symbols, nil
}

func (w *RedisWatchlist) save(ctx context.Context, symbols []string) error {
	raw, err := json.Marshal(symbols)
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}
	if err := w.client.Set(ctx, watchlistKey, string(raw), 0).Err(); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

// RedisAlerts persists alert rules as a single JSON array. The rule set is
// small (one user, tens of rules) so read-modify-write is fine.
type RedisAlerts struct {
	client *redis.Client
}

func NewRedisAlerts(client *redis.Client) *RedisAlerts {
	return &RedisAlerts{client: client}
}

func (a *RedisAlerts) List(ctx context.Context) ([]models.AlertRule, error) {
	return a.load(ctx)
}

func (a *RedisAlerts) Create(ctx context.Context, rule models.AlertRule) error {
	rules, err := a.load(ctx)
	if err != nil {
		return err
	}
	return a.save(ctx, append(rules, rule))
}

func (a *RedisAlerts) SetActive(ctx context.Context, id string, active bool) error {
	return a.update(ctx, id, func(r *models.AlertRule) {
		r.Active = active
	})
}

func (a *RedisAlerts) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	return a.update(ctx, id, func(r *models.AlertRule) {
		ts := at.UnixMilli()
		r.TriggeredAt = &ts
		r.Active = false
	})
}

func (a *RedisAlerts) Delete(ctx context.Context, id string) error {
	rules, err := a.load(ctx)
	if err != nil {
		return err
	}
	for i := range rules {
		if rules[i].ID == id {
			return a.save(ctx, append(rules[:i], rules[i+1:]...))
		}
	}
	return fmt.Errorf("alert rule %s not found", id)
}

func (a *RedisAlerts) update(ctx context.Context, id string, apply func(*models.AlertRule)) error {
	rules, err := a.load(ctx)
	if err != nil {
		return err
	}
	for i := range rules {
		if rules[i].ID == id {
			apply(&rules[i])
			return a.save(ctx, rules)
		}
	}
	return fmt.Errorf("alert rule %s not found", id)
}

func (a *RedisAlerts) load(ctx context.Context) ([]models.AlertRule, error) {
	raw, err := a.client.Get(ctx, alertsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load alerts: %w", err)
	}
	var rules []models.AlertRule
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return rules, nil
}

func (a *RedisAlerts) save(ctx context.Context, rules []models.AlertRule) error {
	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode alerts: %w", err)
	}
	if err := a.client.Set(ctx, alertsKey, string(raw), 0).Err(); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}
