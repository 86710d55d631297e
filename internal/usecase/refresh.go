package usecase

import (
	"context"
	"errors"

	"WatchPulse/internal/domain/models"
)

// NewRefreshCycle builds the fetch the poller runs each cycle: resolve the
// watchlist quotes, then evaluate alert rules against them. The cycle counts
// as failed for backoff purposes when no symbol could be resolved at all.
func NewRefreshCycle(quotes *QuotesUseCase, alerts *AlertsUseCase) FetchFunc {
	return func(ctx context.Context, syms []string) error {
		result, err := quotes.GetQuotes(ctx, syms)
		if err != nil {
			return err
		}
		if err := alerts.Evaluate(ctx, result.Quotes); err != nil {
			return err
		}
		if len(result.Quotes) > 0 && allErrored(result.Quotes) {
			return errors.New("no provider could resolve any watchlist symbol")
		}
		return nil
	}
}

func allErrored(quotes []models.Quote) bool {
	for _, q := range quotes {
		if q.Status != models.StatusError {
			return false
		}
	}
	return true
}
