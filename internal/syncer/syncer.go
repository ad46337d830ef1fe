package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"k8s.io/utils/clock"

	"github.com/five82/stockboard/internal/inventory"
	"github.com/five82/stockboard/internal/metrics"
	"github.com/five82/stockboard/internal/state"
)

// DefaultInterval is the time between automatic fetches.
const DefaultInterval = 30 * time.Second

// defaultRefreshEvery bounds manual refreshes.
const defaultRefreshEvery = 2 * time.Second

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("synchronizer already started")

// Fetcher retrieves the current inventory document.
type Fetcher interface {
	Fetch(ctx context.Context) (inventory.Snapshot, error)
}

// Visibility reports whether the dashboard is being looked at.
type Visibility interface {
	Visible() bool
	Subscribe(fn func(visible bool)) (unsubscribe func())
}

// Trigger names what caused a fetch.
type Trigger string

const (
	TriggerStart   Trigger = "start"
	TriggerPoll    Trigger = "poll"
	TriggerResume  Trigger = "resume"
	TriggerRefresh Trigger = "refresh"
)

// Options configure a Synchronizer. Fetcher and Store are required.
type Options struct {
	Fetcher  Fetcher
	Store    *state.Store
	Interval time.Duration
	// Fallback is published when the very first fetch fails.
	Fallback *inventory.Snapshot
	// Visibility gates polling; nil means always visible.
	Visibility Visibility
	Clock      clock.WithTicker
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	// RefreshLimiter throttles Refresh; nil uses one refresh per two seconds.
	RefreshLimiter *rate.Limiter
	// AfterApply runs on the loop after every applied fetch result.
	AfterApply func(state.SyncState)
}

// Synchronizer keeps a state.Store in step with a remote inventory document.
//
// All decisions run on a single loop goroutine. Fetches run on their own
// goroutines and hand their results back to the loop, so the store is only
// ever written from one place.
type Synchronizer struct {
	fetcher    Fetcher
	store      *state.Store
	interval   time.Duration
	fallback   *inventory.Snapshot
	vis        Visibility
	clock      clock.WithTicker
	logger     *zap.Logger
	metrics    *metrics.Collector
	limiter    *rate.Limiter
	afterApply func(state.SyncState)

	visCh     chan bool
	refreshCh chan chan bool
	results   chan result
	done      chan struct{}
	fetches   sync.WaitGroup

	mu          sync.Mutex
	started     bool
	stopped     bool
	loopCtx     context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	// Loop-owned.
	ticker    clock.Ticker
	active    bool
	seq       uint64
	succeeded uint64 // seq of the newest applied success
	inflight  int
	resolved  bool
}

type result struct {
	seq      uint64
	id       string
	trigger  Trigger
	snap     inventory.Snapshot
	err      error
	duration time.Duration
}

// New validates opts and returns an unstarted Synchronizer.
func New(opts Options) (*Synchronizer, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("synchronizer requires a fetcher")
	}
	if opts.Store == nil {
		return nil, errors.New("synchronizer requires a store")
	}

	s := &Synchronizer{
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		interval:   opts.Interval,
		vis:        opts.Visibility,
		clock:      opts.Clock,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		limiter:    opts.RefreshLimiter,
		afterApply: opts.AfterApply,
		visCh:      make(chan bool),
		refreshCh:  make(chan chan bool),
		results:    make(chan result),
		done:       make(chan struct{}),
	}
	if opts.Fallback != nil {
		fb := opts.Fallback.Clone()
		s.fallback = &fb
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.limiter == nil {
		s.limiter = rate.NewLimiter(rate.Every(defaultRefreshEvery), 1)
	}
	return s, nil
}

// Interval returns the poll interval in effect.
func (s *Synchronizer) Interval() time.Duration {
	return s.interval
}

// State returns the current published state.
func (s *Synchronizer) State() state.SyncState {
	return s.store.State()
}

// Start resets the store, issues the first fetch and begins polling. It
// returns immediately; results are observed through the store.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	s.store.Begin()
	loopCtx, cancel := context.WithCancel(ctx)
	s.loopCtx = loopCtx
	s.cancel = cancel

	visible := true
	if s.vis != nil {
		// Subscribe before sampling so a flip in between is not lost.
		s.unsubscribe = s.vis.Subscribe(func(v bool) {
			select {
			case s.visCh <- v:
			case <-loopCtx.Done():
			}
		})
		visible = s.vis.Visible()
	}

	s.logger.Info("synchronizer starting",
		zap.Duration("interval", s.interval),
		zap.Bool("visible", visible),
		zap.Bool("fallback", s.fallback != nil))

	go s.run(loopCtx, visible)
	return nil
}

// Stop cancels polling, drops the visibility subscription and waits for the
// loop and any in-flight fetch to finish. Results that arrive afterwards are
// discarded. Stop is idempotent and a no-op before Start.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	unsubscribe := s.unsubscribe
	cancel := s.cancel
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	cancel()
	<-s.done
	s.fetches.Wait()
	s.logger.Info("synchronizer stopped")
}

// Refresh asks for an immediate fetch. It reports false when the request was
// throttled, polling is paused, or the synchronizer is not running.
func (s *Synchronizer) Refresh() bool {
	s.mu.Lock()
	ctx := s.loopCtx
	running := s.started && !s.stopped
	s.mu.Unlock()
	if !running || ctx == nil {
		return false
	}

	reply := make(chan bool, 1)
	select {
	case s.refreshCh <- reply:
	case <-ctx.Done():
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

func (s *Synchronizer) run(ctx context.Context, visible bool) {
	defer close(s.done)
	defer s.stopTicker()

	s.active = true
	s.schedule()
	s.dispatch(ctx, TriggerStart)
	if !visible {
		s.pause()
	}

	for {
		var tick <-chan time.Time
		if s.ticker != nil {
			tick = s.ticker.C()
		}

		select {
		case <-ctx.Done():
			return
		case <-tick:
			s.dispatch(ctx, TriggerPoll)
		case visible := <-s.visCh:
			s.setVisible(ctx, visible)
		case reply := <-s.refreshCh:
			reply <- s.refresh(ctx)
		case res := <-s.results:
			s.apply(res)
		}
	}
}
