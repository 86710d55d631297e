package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"WatchPulse/internal/domain/models"
	domrepo "WatchPulse/internal/domain/repository"
	"WatchPulse/internal/symbols"
	"WatchPulse/pkg/cache"
	"WatchPulse/pkg/logger"
)

// primaryFanOutLimit bounds concurrent per-symbol primary fetches.
const primaryFanOutLimit = 8

// QuotesUseCase aggregates per-symbol quotes from the primary provider with
// batched fallback, behind a shared TTL cache.
type QuotesUseCase struct {
	primary   domrepo.QuoteProvider
	fallback  domrepo.BatchQuoteProvider
	cache     *cache.TTLCache
	ttl       time.Duration
	allowlist map[string]struct{}
	maxBatch  int
	metrics   domrepo.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// QuotesConfig carries the aggregator knobs.
type QuotesConfig struct {
	TTL       time.Duration
	Allowlist []string
	MaxBatch  int
}

func NewQuotesUseCase(
	primary domrepo.QuoteProvider,
	fallback domrepo.BatchQuoteProvider,
	c *cache.TTLCache,
	cfg QuotesConfig,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *QuotesUseCase {
	uc := &QuotesUseCase{
		primary:  primary,
		fallback: fallback,
		cache:    c,
		ttl:      cfg.TTL,
		maxBatch: cfg.MaxBatch,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
	if uc.maxBatch <= 0 {
		uc.maxBatch = 50
	}
	if len(cfg.Allowlist) > 0 {
		uc.allowlist = make(map[string]struct{}, len(cfg.Allowlist))
		for _, s := range cfg.Allowlist {
			uc.allowlist[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
		}
	}
	return uc
}

// GetQuotes resolves a symbol batch. Per-symbol upstream failures surface as
// error-status quotes, never as a failed call; the only error paths are the
// batch ceiling and nothing else. Output order matches the sanitized input
// order.
func (uc *QuotesUseCase) GetQuotes(ctx context.Context, requested []string) (models.QuotesResult, error) {
	start := uc.now()

	filtered := uc.applyAllowlist(requested)
	if len(filtered) == 0 {
		return models.QuotesResult{Quotes: []models.Quote{}, FetchedAt: uc.now().UnixMilli()}, nil
	}
	if len(filtered) > uc.maxBatch {
		return models.QuotesResult{}, &models.TooManySymbolsError{Max: uc.maxBatch, Got: len(filtered)}
	}

	syms := symbols.Sanitize(filtered)
	if len(syms) == 0 {
		return models.QuotesResult{Quotes: []models.Quote{}, FetchedAt: uc.now().UnixMilli()}, nil
	}

	key := quotesCacheKey(syms)
	if cached, ok := uc.cache.Get(key); ok {
		uc.metrics.RecordCacheLookup("quotes", true)
		result := cached.(models.QuotesResult)
		result.ServedFromCache = true
		return result, nil
	}
	uc.metrics.RecordCacheLookup("quotes", false)

	resolved := uc.fetchPrimary(ctx, syms)
	uc.fetchFallback(ctx, syms, resolved)

	quotes := make([]models.Quote, 0, len(syms))
	for _, sym := range syms {
		q, ok := resolved[sym]
		if !ok {
			q = models.Quote{
				Symbol:    sym,
				Price:     math.NaN(),
				PrevClose: math.NaN(),
				Timestamp: uc.now().UnixMilli(),
				Source:    models.SourceUnknown,
				Status:    models.StatusError,
			}
		}
		if q.Valid() {
			uc.metrics.RecordLastPrice(q.Symbol, q.Price)
		}
		quotes = append(quotes, q)
	}

	result := models.QuotesResult{
		Quotes:    quotes,
		FetchedAt: uc.now().UnixMilli(),
	}
	uc.cache.Set(key, result, uc.ttl)
	uc.metrics.RecordLatency("get_quotes", uc.now().Sub(start).Seconds())
	return result, nil
}

// applyAllowlist drops symbols outside the configured set. An empty
// allowlist permits everything.
func (uc *QuotesUseCase) applyAllowlist(requested []string) []string {
	if uc.allowlist == nil {
		return requested
	}
	out := make([]string, 0, len(requested))
	for _, raw := range requested {
		s := strings.ToUpper(strings.TrimSpace(raw))
		if _, ok := uc.allowlist[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// fetchPrimary fans out one fetch per symbol. A failing symbol never aborts
// the batch; it just stays unresolved.
func (uc *QuotesUseCase) fetchPrimary(ctx context.Context, syms []string) map[string]models.Quote {
	resolved := make(map[string]models.Quote, len(syms))
	if uc.primary == nil || !uc.primary.Configured() {
		return resolved
	}

	results := make([]*models.Quote, len(syms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(primaryFanOutLimit)
	for i, sym := range syms {
		i, sym := i, sym
		g.Go(func() error {
			q, err := uc.primary.FetchQuote(gctx, sym)
			if err != nil {
				if !errors.Is(err, models.ErrNotConfigured) {
					uc.metrics.RecordProviderRequest(uc.primary.Name(), "quote", "error")
					uc.log.Warn("primary quote fetch failed",
						logger.String("symbol", sym),
						logger.Error(err),
					)
				}
				return nil
			}
			uc.metrics.RecordProviderRequest(uc.primary.Name(), "quote", "ok")
			results[i] = &q
			return nil
		})
	}
	g.Wait()

	for _, q := range results {
		if q != nil {
			resolved[q.Symbol] = *q
		}
	}
	return resolved
}

// fetchFallback issues one batched fetch for every still-unresolved symbol
// and merges the answers into resolved.
func (uc *QuotesUseCase) fetchFallback(ctx context.Context, syms []string, resolved map[string]models.Quote) {
	if uc.fallback == nil {
		return
	}
	missing := make([]string, 0, len(syms))
	for _, sym := range syms {
		if _, ok := resolved[sym]; !ok {
			missing = append(missing, sym)
		}
	}
	if len(missing) == 0 {
		return
	}

	quotes, err := uc.fallback.FetchQuotes(ctx, missing)
	if err != nil {
		uc.metrics.RecordProviderRequest(uc.fallback.Name(), "quote", "error")
		uc.log.Warn("fallback quote fetch failed",
			logger.Strings("symbols", missing),
			logger.Error(err),
		)
		return
	}
	uc.metrics.RecordProviderRequest(uc.fallback.Name(), "quote", "ok")
	for _, q := range quotes {
		if _, ok := resolved[q.Symbol]; !ok {
			resolved[q.Symbol] = q
		}
	}
}

func quotesCacheKey(syms []string) string {
	sorted := append([]string(nil), syms...)
	sort.Strings(sorted)
	return "quotes:" + strings.Join(sorted, ",")
}
