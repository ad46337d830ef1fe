package syncer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/five82/stockboard/internal/inventory"
	"github.com/five82/stockboard/internal/metrics"
	"github.com/five82/stockboard/internal/source"
	"github.com/five82/stockboard/internal/state"
	"github.com/five82/stockboard/internal/visibility"
)

const (
	testInterval = 30 * time.Second
	waitFor      = 2 * time.Second
	tickEvery    = 5 * time.Millisecond
	quietFor     = 100 * time.Millisecond
)

var errBoom = errors.New("boom")

type outcome struct {
	snap inventory.Snapshot
	err  error
	// gate, when set, holds the fetch until closed or the context ends.
	gate chan struct{}
}

// fakeFetcher plays outcomes in order and repeats the last one.
type fakeFetcher struct {
	mu       sync.Mutex
	outcomes []outcome
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (inventory.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	var o outcome
	if len(f.outcomes) > 0 {
		o = f.outcomes[min(f.calls, len(f.outcomes))-1]
	}
	f.mu.Unlock()

	if o.gate != nil {
		select {
		case <-o.gate:
		case <-ctx.Done():
		}
	}
	return o.snap, o.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	t     *testing.T
	sync  *Synchronizer
	store *state.Store
	clock *clocktesting.FakeClock
	vis   *visibility.Signal

	mu      sync.Mutex
	applied []state.SyncState
}

func newHarness(t *testing.T, f Fetcher, configure func(*Options)) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		store: &state.Store{},
		clock: clocktesting.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		vis:   visibility.New(true),
	}
	opts := Options{
		Fetcher:    f,
		Store:      h.store,
		Interval:   testInterval,
		Visibility: h.vis,
		Clock:      h.clock,
		Logger:     zaptest.NewLogger(t),
		AfterApply: func(st state.SyncState) {
			h.mu.Lock()
			h.applied = append(h.applied, st)
			h.mu.Unlock()
		},
	}
	if configure != nil {
		configure(&opts)
	}
	s, err := New(opts)
	require.NoError(t, err)
	h.sync = s
	t.Cleanup(s.Stop)
	return h
}

func (h *harness) start() {
	h.t.Helper()
	require.NoError(h.t, h.sync.Start(context.Background()))
}

func (h *harness) state() state.SyncState {
	return h.store.State()
}

func (h *harness) appliedStates() []state.SyncState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]state.SyncState(nil), h.applied...)
}

func (h *harness) waitApplied(n int) {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return len(h.appliedStates()) >= n }, waitFor, tickEvery,
		"expected %d applied results", n)
}

func (h *harness) waitCalls(f *fakeFetcher, n int) {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return f.Calls() == n }, waitFor, tickEvery,
		"expected %d fetches", n)
}

func (h *harness) assertCallsStay(f *fakeFetcher, n int) {
	h.t.Helper()
	assert.Never(h.t, func() bool { return f.Calls() != n }, quietFor, tickEvery,
		"fetch count moved away from %d", n)
}

func (h *harness) pause() {
	h.t.Helper()
	h.vis.Set(false)
	require.Eventually(h.t, func() bool {
		return h.state().Paused && !h.clock.HasWaiters()
	}, waitFor, tickEvery)
}

func snapshot(label string) inventory.Snapshot {
	return inventory.Snapshot{
		Products:    []string{"X"},
		Stores:      []inventory.Store{{Name: "S", Status: map[string]inventory.Status{"X": inventory.InStock}}},
		LastUpdated: label,
	}
}

func TestNew_RequiresFetcherAndStore(t *testing.T) {
	_, err := New(Options{Store: &state.Store{}})
	assert.Error(t, err)

	_, err = New(Options{Fetcher: &fakeFetcher{}})
	assert.Error(t, err)

	s, err := New(Options{Fetcher: &fakeFetcher{}, Store: &state.Store{}})
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, s.Interval())
}

func TestStart_OnlyOnce(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.start()

	assert.ErrorIs(t, h.sync.Start(context.Background()), ErrAlreadyStarted)
	h.waitCalls(f, 1)
	assert.Equal(t, 1, h.vis.Subscribers())
}

func TestStart_LoadingUntilFirstResult(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeFetcher{outcomes: []outcome{{snap: snapshot("a"), gate: gate}}}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)

	st := h.state()
	assert.True(t, st.Loading)
	assert.True(t, st.Fetching)
	assert.Nil(t, st.Snapshot)
	assert.False(t, st.HasError)

	close(gate)
	h.waitApplied(1)
	st = h.state()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, snapshot("a"), *st.Snapshot)
}

func TestLoadingNeverReturnsToTrue(t *testing.T) {
	f := &fakeFetcher{outcomes: []outcome{
		{err: errBoom},
		{snap: snapshot("a")},
		{err: errBoom},
		{err: errBoom},
		{snap: snapshot("b")},
	}}
	fallback := inventory.Sample()
	h := newHarness(t, f, func(o *Options) { o.Fallback = &fallback })
	h.start()
	h.waitApplied(1)

	for i := 2; i <= 5; i++ {
		h.clock.Step(testInterval)
		h.waitApplied(i)
	}

	for i, st := range h.appliedStates() {
		assert.False(t, st.Loading, "state %d", i)
	}
	assert.False(t, h.state().Loading)
}

func TestFailureRetainsPreviousSnapshot(t *testing.T) {
	f := &fakeFetcher{outcomes: []outcome{
		{snap: snapshot("a")},
		{err: errors.New("first outage")},
		{err: errors.New("second outage")},
	}}
	h := newHarness(t, f, nil)
	h.start()
	h.waitApplied(1)
	want := snapshot("a")

	h.clock.Step(testInterval)
	h.waitApplied(2)
	st := h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, want, *st.Snapshot)
	assert.Equal(t, "first outage", st.LastError)
	assert.False(t, st.IsOffline())
	assert.False(t, st.FromFallback)

	h.clock.Step(testInterval)
	h.waitApplied(3)
	st = h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, want, *st.Snapshot)
	assert.Equal(t, "second outage", st.LastError)
	assert.True(t, st.IsOffline())
}

func TestFirstFailureInstallsFallback(t *testing.T) {
	f := &fakeFetcher{outcomes: []outcome{{err: errBoom}}}
	fallback := inventory.Sample()
	h := newHarness(t, f, func(o *Options) { o.Fallback = &fallback })
	h.start()
	h.waitApplied(1)

	st := h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, inventory.Sample(), *st.Snapshot)
	assert.True(t, st.FromFallback)
	assert.True(t, st.HasError)
	assert.Equal(t, "boom", st.LastError)
	assert.False(t, st.Loading)

	// The fallback stays put through later failures too.
	h.clock.Step(testInterval)
	h.waitApplied(2)
	st = h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, inventory.Sample(), *st.Snapshot)
}

func TestFirstFailureWithoutFallback(t *testing.T) {
	f := &fakeFetcher{outcomes: []outcome{{err: errBoom}}}
	h := newHarness(t, f, nil)
	h.start()
	h.waitApplied(1)

	st := h.state()
	assert.Nil(t, st.Snapshot)
	assert.Equal(t, "boom", st.LastError)
	assert.False(t, st.Loading)
}

func TestFallbackIsNotUsedAfterFirstResult(t *testing.T) {
	f := &fakeFetcher{outcomes: []outcome{{snap: snapshot("live")}, {err: errBoom}}}
	fallback := inventory.Sample()
	h := newHarness(t, f, func(o *Options) { o.Fallback = &fallback })
	h.start()
	h.waitApplied(1)

	h.clock.Step(testInterval)
	h.waitApplied(2)
	st := h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, "live", st.Snapshot.LastUpdated)
	assert.False(t, st.FromFallback)
}

func TestSuccessClearsError(t *testing.T) {
	f := &fakeFetcher{outcomes: []outcome{{err: errBoom}, {err: errBoom}, {snap: snapshot("ok")}}}
	h := newHarness(t, f, nil)
	h.start()
	h.waitApplied(1)
	h.clock.Step(testInterval)
	h.waitApplied(2)
	require.True(t, h.state().IsOffline())

	h.clock.Step(testInterval)
	h.waitApplied(3)
	st := h.state()
	assert.False(t, st.HasError)
	assert.Empty(t, st.LastError)
	assert.Zero(t, st.ConsecutiveFailures)
	assert.Equal(t, h.clock.Now(), st.LastSuccess)
}

func TestPolling_OneFetchPerInterval(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)

	h.clock.Step(testInterval / 2)
	h.assertCallsStay(f, 1)

	h.clock.Step(testInterval / 2)
	h.waitCalls(f, 2)

	h.clock.Step(testInterval)
	h.waitCalls(f, 3)
	h.assertCallsStay(f, 3)
}

func TestPauseResumeCyclesKeepOneTicker(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)

	const cycles = 5
	for i := 0; i < cycles; i++ {
		h.pause()
		h.vis.Set(true)
		h.waitCalls(f, 2+i)
	}
	require.True(t, h.clock.HasWaiters())

	base := f.Calls()
	for i := 1; i <= 3; i++ {
		h.clock.Step(testInterval)
		h.waitCalls(f, base+i)
	}
	h.assertCallsStay(f, base+3)
}

func TestPausedDoesNotPoll(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)
	h.pause()

	for i := 0; i < 3; i++ {
		h.clock.Step(testInterval)
	}
	h.clock.Step(10 * testInterval)
	h.assertCallsStay(f, 1)
	assert.True(t, h.state().Paused)
	assert.False(t, h.sync.Refresh(), "refresh is ignored while paused")
	h.assertCallsStay(f, 1)
}

func TestRepeatedSignalsAreNoops(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)

	// Signal dedupes, so drive the loop directly to mimic a noisy host.
	h.sync.visCh <- true
	h.sync.visCh <- true
	h.assertCallsStay(f, 1)

	h.pause()
	h.sync.visCh <- false
	h.assertCallsStay(f, 1)
	assert.False(t, h.clock.HasWaiters())
}

func TestResumeFetchesImmediately(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)
	h.pause()

	h.clock.Step(testInterval / 3)
	h.vis.Set(true)
	h.waitCalls(f, 2)
	assert.False(t, h.state().Paused)

	// The ticker restarts from the resume, not from the original schedule.
	h.clock.Step(testInterval - time.Second)
	h.assertCallsStay(f, 2)
	h.clock.Step(time.Second)
	h.waitCalls(f, 3)
}

func TestStartHidden(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	h.vis.Set(false)
	h.start()

	h.waitCalls(f, 1)
	require.Eventually(t, func() bool { return h.state().Paused }, waitFor, tickEvery)
	assert.False(t, h.clock.HasWaiters())

	h.vis.Set(true)
	h.waitCalls(f, 2)
}

func TestRefresh(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	assert.False(t, h.sync.Refresh(), "not running")

	h.start()
	h.waitCalls(f, 1)

	assert.True(t, h.sync.Refresh())
	h.waitCalls(f, 2)
	assert.False(t, h.sync.Refresh(), "throttled")

	h.clock.Step(defaultRefreshEvery)
	assert.True(t, h.sync.Refresh())
	h.waitCalls(f, 3)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	slow := make(chan struct{})
	f := &fakeFetcher{outcomes: []outcome{
		{snap: snapshot("old"), gate: slow},
		{snap: snapshot("new")},
	}}
	reg := prometheus.NewRegistry()
	h := newHarness(t, f, func(o *Options) { o.Metrics = metrics.NewCollector(reg) })
	h.start()
	h.waitCalls(f, 1)

	require.True(t, h.sync.Refresh())
	h.waitApplied(1)
	require.Equal(t, "new", h.state().Snapshot.LastUpdated)
	assert.True(t, h.state().Fetching)

	close(slow)
	require.Eventually(t, func() bool { return !h.state().Fetching }, waitFor, tickEvery)
	assert.Equal(t, "new", h.state().Snapshot.LastUpdated)
	assert.Len(t, h.appliedStates(), 1)

	n, err := testutil.GatherAndCount(reg, "stockboard_fetch_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "success and discarded series")
}

func TestOlderSuccessReplacesNewerFailure(t *testing.T) {
	slow := make(chan struct{})
	f := &fakeFetcher{outcomes: []outcome{
		{snap: snapshot("good"), gate: slow},
		{err: errBoom},
	}}
	fallback := snapshot("fallback")
	h := newHarness(t, f, func(o *Options) { o.Fallback = &fallback })
	h.start()
	h.waitCalls(f, 1)

	require.True(t, h.sync.Refresh())
	h.waitApplied(1)
	st := h.state()
	require.Equal(t, "fallback", st.Snapshot.LastUpdated)
	require.True(t, st.FromFallback)
	require.True(t, st.HasError)

	close(slow)
	h.waitApplied(2)
	st = h.state()
	assert.Equal(t, "good", st.Snapshot.LastUpdated)
	assert.False(t, st.FromFallback)
	assert.False(t, st.HasError)
	assert.Empty(t, st.LastError)
	assert.Zero(t, st.ConsecutiveFailures)
	assert.False(t, st.Fetching)
}

func TestOlderFailureAfterNewerSuccessIsDiscarded(t *testing.T) {
	slow := make(chan struct{})
	f := &fakeFetcher{outcomes: []outcome{
		{err: errBoom, gate: slow},
		{snap: snapshot("new")},
	}}
	fallback := snapshot("fallback")
	h := newHarness(t, f, func(o *Options) { o.Fallback = &fallback })
	h.start()
	h.waitCalls(f, 1)

	require.True(t, h.sync.Refresh())
	h.waitApplied(1)

	close(slow)
	require.Eventually(t, func() bool { return !h.state().Fetching }, waitFor, tickEvery)
	st := h.state()
	assert.Equal(t, "new", st.Snapshot.LastUpdated)
	assert.False(t, st.HasError)
	assert.Len(t, h.appliedStates(), 1)
}

func TestStop_DiscardsInFlightResult(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeFetcher{outcomes: []outcome{{snap: snapshot("late"), gate: gate}}}
	h := newHarness(t, f, nil)
	h.start()
	h.waitCalls(f, 1)

	h.sync.Stop()
	h.sync.Stop()

	st := h.state()
	assert.True(t, st.Loading)
	assert.Nil(t, st.Snapshot)
	assert.Zero(t, h.vis.Subscribers())
	assert.False(t, h.clock.HasWaiters())
	assert.False(t, h.sync.Refresh())

	close(gate)
	h.vis.Set(false)
	h.clock.Step(testInterval)
	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, st, h.state())
}

func TestStop_BeforeStartIsNoop(t *testing.T) {
	s, err := New(Options{Fetcher: &fakeFetcher{}, Store: &state.Store{}})
	require.NoError(t, err)
	s.Stop()
}

func TestParentContextCancelStopsLoop(t *testing.T) {
	f := &fakeFetcher{}
	h := newHarness(t, f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.sync.Start(ctx))
	h.waitCalls(f, 1)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-h.sync.done:
			return true
		default:
			return false
		}
	}, waitFor, tickEvery)
	h.clock.Step(testInterval)
	h.assertCallsStay(f, 1)
}

// End-to-end runs against a real HTTP source.

const scenarioBody = `{"products":["X"],"stores":[{"name":"S","status":{"X":"販売中"}}],"lastUpdated":"2024-01-01"}`

var scenarioSnapshot = inventory.Snapshot{
	Products:    []string{"X"},
	Stores:      []inventory.Store{{Name: "S", Status: map[string]inventory.Status{"X": inventory.InStock}}},
	LastUpdated: "2024-01-01",
}

func scenarioServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		code := statuses[min(n, len(statuses))-1]
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scenarioBody))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func scenarioHarness(t *testing.T, statuses ...int) (*harness, *atomic.Int32) {
	t.Helper()
	server, calls := scenarioServer(t, statuses...)
	client, err := source.NewClient(server.URL + "/inventory.json")
	require.NoError(t, err)
	fallback := inventory.Sample()
	h := newHarness(t, client, func(o *Options) { o.Fallback = &fallback })
	return h, calls
}

func TestScenario_SuccessfulFetch(t *testing.T) {
	h, _ := scenarioHarness(t, http.StatusOK)
	h.start()
	h.waitApplied(1)

	st := h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, scenarioSnapshot, *st.Snapshot)
	assert.False(t, st.Loading)
	assert.False(t, st.HasError)
}

func TestScenario_FirstCallServerError(t *testing.T) {
	h, _ := scenarioHarness(t, http.StatusInternalServerError)
	h.start()
	h.waitApplied(1)

	st := h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, inventory.Sample(), *st.Snapshot)
	assert.False(t, st.Loading)
	assert.Equal(t, "HTTP error! status: 500", st.LastError)
}

func TestScenario_PollServerErrorKeepsData(t *testing.T) {
	h, calls := scenarioHarness(t, http.StatusOK, http.StatusInternalServerError)
	h.start()
	h.waitApplied(1)

	h.clock.Step(testInterval)
	h.waitApplied(2)
	assert.EqualValues(t, 2, calls.Load())

	st := h.state()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, scenarioSnapshot, *st.Snapshot)
	assert.Equal(t, "HTTP error! status: 500", st.LastError)
	assert.False(t, st.FromFallback)
}
