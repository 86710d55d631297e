package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"WatchPulse/internal/domain/models"
)

// MemoryWatchlist keeps the watched symbols in process memory, in insertion
// order. It is the default store and the backing for tests.
type MemoryWatchlist struct {
	mu      sync.Mutex
	symbols []string
}

// NewMemoryWatchlist creates a watchlist pre-seeded with symbols.
func NewMemoryWatchlist(seed []string) *MemoryWatchlist {
	w := &MemoryWatchlist{}
	for _, sym := range seed {
		w.addLocked(sym)
	}
	return w
}

func (w *MemoryWatchlist) List(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.symbols...), nil
}

func (w *MemoryWatchlist) Add(ctx context.Context, symbol string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addLocked(symbol)
	return append([]string(nil), w.symbols...), nil
}

func (w *MemoryWatchlist) addLocked(symbol string) {
	for _, existing := range w.symbols {
		if existing == symbol {
			return
		}
	}
	w.symbols = append(w.symbols, symbol)
}

func (w *MemoryWatchlist) Remove(ctx context.Context, symbol string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.symbols[:0]
	for _, existing := range w.symbols {
		if existing != symbol {
			out = append(out, existing)
		}
	}
	w.symbols = out
	return append([]string(nil), w.symbols...), nil
}

// MemoryAlerts keeps alert rules in process memory, in creation order.
type MemoryAlerts struct {
	mu    sync.Mutex
	rules []models.AlertRule
}

func NewMemoryAlerts() *MemoryAlerts { return &MemoryAlerts{} }

func (a *MemoryAlerts) List(ctx context.Context) ([]models.AlertRule, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AlertRule(nil), a.rules...), nil
}

func (a *MemoryAlerts) Create(ctx context.Context, rule models.AlertRule) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rules = append(a.rules, rule)
	return nil
}

func (a *MemoryAlerts) SetActive(ctx context.Context, id string, active bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.rules {
		if a.rules[i].ID == id {
			a.rules[i].Active = active
			return nil
		}
	}
	return fmt.Errorf("alert rule %s not found", id)
}

func (a *MemoryAlerts) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.rules {
		if a.rules[i].ID == id {
			ts := at.UnixMilli()
			a.rules[i].TriggeredAt = &ts
			a.rules[i].Active = false
			return nil
		}
	}
	return fmt.Errorf("alert rule %s not found", id)
}

func (a *MemoryAlerts) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.rules {
		if a.rules[i].ID == id {
			a.rules = append(a.rules[:i], a.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("alert rule %s not found", id)
}
