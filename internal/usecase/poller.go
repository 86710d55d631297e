package usecase

import (
	"context"
	"sync"
	"time"

	domrepo "WatchPulse/internal/domain/repository"
	"WatchPulse/pkg/logger"
)

// CancelFunc cancels a scheduled callback. Calling it after the callback
// fired is a no-op.
type CancelFunc func()

// Scheduler runs one callback after a delay. The indirection exists so tests
// can drive the poller without real timers.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration) CancelFunc
}

type timerScheduler struct{}

func (timerScheduler) Schedule(fn func(), delay time.Duration) CancelFunc {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// NewTimerScheduler returns the production scheduler backed by time.AfterFunc.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

// FetchFunc runs one refresh cycle for the given symbols.
type FetchFunc func(ctx context.Context, symbols []string) error

// PollerConfig carries the cadence knobs.
type PollerConfig struct {
	BaseInterval time.Duration
	MaxInterval  time.Duration
	BackoffStep  time.Duration
}

// Poller drives periodic watchlist refreshes with linear backoff. Each
// completed cycle schedules exactly one next cycle at the current interval.
// Failure stretches the interval by one step up to the ceiling; success
// snaps it back to base. While hidden no cycle fires; becoming visible
// fires one immediately without resetting the backoff state.
type Poller struct {
	watchlist domrepo.WatchlistStore
	fetch     FetchFunc
	sched     Scheduler
	cfg       PollerConfig
	metrics   domrepo.Metrics
	log       *logger.Logger

	mu       sync.Mutex
	ctx      context.Context
	interval time.Duration
	visible  bool
	running  bool
	cancel   CancelFunc
}

func NewPoller(
	watchlist domrepo.WatchlistStore,
	fetch FetchFunc,
	sched Scheduler,
	cfg PollerConfig,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *Poller {
	if cfg.BaseInterval <= 0 {
		cfg.BaseInterval = 60 * time.Second
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 180 * time.Second
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = 60 * time.Second
	}
	return &Poller{
		watchlist: watchlist,
		fetch:     fetch,
		sched:     sched,
		cfg:       cfg,
		metrics:   metrics,
		log:       log,
		interval:  cfg.BaseInterval,
		visible:   true,
	}
}

// Start begins polling with an immediate first cycle. ctx bounds every fetch
// the poller issues.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.ctx = ctx
	p.mu.Unlock()

	go p.runCycle()
}

// Stop tears the poller down and cancels any pending cycle.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// SetVisible feeds the page-visibility signal. Going hidden cancels the
// pending cycle; going visible fires one immediately at the current
// interval.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	if p.visible == visible {
		p.mu.Unlock()
		return
	}
	p.visible = visible
	if !visible {
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}
		p.mu.Unlock()
		return
	}
	running := p.running
	p.mu.Unlock()

	if running {
		go p.runCycle()
	}
}

// Wake fires an immediate cycle if none is pending, used after watchlist
// mutations so a previously empty list resumes without waiting.
func (p *Poller) Wake() {
	p.mu.Lock()
	if !p.running || !p.visible || p.cancel != nil {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	go p.runCycle()
}

// Interval reports the current interval, for introspection and tests.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

func (p *Poller) runCycle() {
	p.mu.Lock()
	if !p.running || !p.visible {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	ctx := p.ctx
	p.mu.Unlock()

	symbols, err := p.watchlist.List(ctx)
	if err != nil {
		p.log.Error("load watchlist", logger.Error(err))
		p.recordOutcome(false)
		p.scheduleNext()
		return
	}
	if len(symbols) == 0 {
		// Nothing to poll; stay idle until Wake or a visibility change.
		return
	}

	if err := p.fetch(ctx, symbols); err != nil {
		p.log.Warn("poll cycle failed", logger.Error(err))
		p.recordOutcome(false)
	} else {
		p.recordOutcome(true)
	}
	p.scheduleNext()
}

func (p *Poller) recordOutcome(success bool) {
	p.mu.Lock()
	if success {
		p.interval = p.cfg.BaseInterval
	} else {
		p.interval += p.cfg.BackoffStep
		if p.interval > p.cfg.MaxInterval {
			p.interval = p.cfg.MaxInterval
		}
	}
	interval := p.interval
	p.mu.Unlock()

	p.metrics.RecordPollInterval(interval.Seconds())
}

func (p *Poller) scheduleNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || !p.visible {
		return
	}
	p.cancel = p.sched.Schedule(p.runCycle, p.interval)
}
