package antrean

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/ambiyansyah-risyal/antrean/internal/backoff"
)

// Resource store defaults, matching the revalidation policy every feature
// view relies on.
const (
	DefaultDedupeWindow  = 2 * time.Second
	DefaultRetryInterval = 5 * time.Second
	DefaultMaxRetries    = 3
)

// Fetcher loads the value behind a resource key.
type Fetcher func(ctx context.Context) (any, error)

// ResourceState is the snapshot delivered to subscribers: the last resolved
// value, the normalized error if the last fetch failed, and whether an
// initial load is still in progress.
type ResourceState struct {
	Data      any
	Err       error
	IsLoading bool
}

// ErrorHook observes every failed fetch attempt. It is invoked behind a
// recover guard, so a panicking hook cannot disturb the store.
type ErrorHook func(key string, err error)

// RetryPredicate decides whether a failed fetch is worth retrying.
type RetryPredicate func(err error) bool

// DefaultRetryPredicate retries network, server and unclassified failures.
// Client-caused failures (not found, validation, auth) are terminal; 429 is
// the one client status treated as transient.
func DefaultRetryPredicate(err error) bool {
	norm := Normalize(err)
	switch norm.Kind {
	case KindNetwork, KindServer, KindUnknown:
		return true
	case KindValidation:
		return norm.StatusCode == 429
	default:
		return false
	}
}

// Key builds a stable resource key from an endpoint and its filter
// parameters. url.Values encoding sorts keys, so equal filters always
// produce equal keys. An empty key disables fetching entirely.
func Key(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// ResourceStore is a keyed stale-while-revalidate cache of request results.
// Subscribers to the same key share one entry: at most one fetch per key is
// in flight at a time, requests inside the dedupe window reuse the most
// recent result, failures are retried on a fixed interval up to a cap, and
// entries revalidate on first subscribe and on network reconnect (never on
// focus, never while offline).
type ResourceStore struct {
	mu      sync.Mutex
	entries map[string]*resourceEntry
	nextSub int64
	online  bool
	closed  bool

	scheduler    Scheduler
	dedupeWindow time.Duration
	maxRetries   int
	retryDelay   backoff.Calculator
	shouldRetry  RetryPredicate
	onError      ErrorHook
	metrics      *MetricsCollector
	logger       Logger
}

type resourceEntry struct {
	key     string
	fetcher Fetcher
	subs    map[int64]func(ResourceState)

	data    any
	hasData bool
	err     error

	inflight   bool
	lastStart  time.Time
	issueSeq   uint64
	fetchSeq   uint64
	appliedSeq uint64

	retries    int
	retryTimer TimerHandle
}

// ResourceOption configures a ResourceStore.
type ResourceOption func(*ResourceStore)

// WithResourceScheduler sets the timer scheduler (tests inject a manual one).
func WithResourceScheduler(s Scheduler) ResourceOption {
	return func(rs *ResourceStore) { rs.scheduler = s }
}

// WithDedupeWindow sets how long a fetch result satisfies duplicate requests.
func WithDedupeWindow(d time.Duration) ResourceOption {
	return func(rs *ResourceStore) { rs.dedupeWindow = d }
}

// WithRetryPolicy sets the retry cap and the delay calculator between attempts.
func WithRetryPolicy(maxRetries int, delay backoff.Calculator) ResourceOption {
	return func(rs *ResourceStore) {
		rs.maxRetries = maxRetries
		rs.retryDelay = delay
	}
}

// WithRetryPredicate overrides which failures are retried.
func WithRetryPredicate(fn RetryPredicate) ResourceOption {
	return func(rs *ResourceStore) { rs.shouldRetry = fn }
}

// WithErrorHook sets the shared per-attempt failure observer.
func WithErrorHook(fn ErrorHook) ResourceOption {
	return func(rs *ResourceStore) { rs.onError = fn }
}

// WithResourceMetrics wires the store into a metrics collector.
func WithResourceMetrics(mc *MetricsCollector) ResourceOption {
	return func(rs *ResourceStore) { rs.metrics = mc }
}

// WithResourceLogger sets the logger for store-level debug records.
func WithResourceLogger(l Logger) ResourceOption {
	return func(rs *ResourceStore) { rs.logger = l }
}

// NewResourceStore creates a resource store with the default policy:
// 2s dedupe window, up to 3 retries at 5s fixed intervals.
func NewResourceStore(options ...ResourceOption) *ResourceStore {
	rs := &ResourceStore{
		entries:      make(map[string]*resourceEntry),
		online:       true,
		scheduler:    RealScheduler(),
		dedupeWindow: DefaultDedupeWindow,
		maxRetries:   DefaultMaxRetries,
		retryDelay:   backoff.Fixed{Interval: DefaultRetryInterval},
		shouldRetry:  DefaultRetryPredicate,
	}
	for _, option := range options {
		option(rs)
	}
	return rs
}

// ResourceSubscription is one consumer's handle on a resource entry. After
// Cancel the consumer receives no further state updates, regardless of any
// still-outstanding fetch.
type ResourceSubscription struct {
	store    *ResourceStore
	key      string
	id       int64
	disabled bool
}

// Subscribe registers a consumer for key. An empty key disables fetching and
// yields an inert subscription whose state is empty and not loading — used
// when required parameters are not yet available. onChange may be nil;
// subscribers can poll State instead.
func (rs *ResourceStore) Subscribe(key string, fetcher Fetcher, onChange func(ResourceState)) *ResourceSubscription {
	if key == "" {
		return &ResourceSubscription{disabled: true}
	}

	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return &ResourceSubscription{disabled: true}
	}

	entry, ok := rs.entries[key]
	if !ok {
		entry = &resourceEntry{
			key:  key,
			subs: make(map[int64]func(ResourceState)),
		}
		rs.entries[key] = entry
	}
	entry.fetcher = fetcher

	rs.nextSub++
	id := rs.nextSub
	if onChange != nil {
		entry.subs[id] = onChange
	} else {
		entry.subs[id] = func(ResourceState) {}
	}

	notify := rs.maybeFetchLocked(entry, false)
	rs.mu.Unlock()
	notify()

	return &ResourceSubscription{store: rs, key: key, id: id}
}

// State returns the subscriber's current view of the entry.
func (sub *ResourceSubscription) State() ResourceState {
	if sub.disabled {
		return ResourceState{}
	}
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	entry, ok := sub.store.entries[sub.key]
	if !ok {
		return ResourceState{}
	}
	return entry.state()
}

// Cancel detaches the subscriber. The entry's cached value survives for
// future subscribers; pending retry timers are cancelled once nobody is
// listening.
func (sub *ResourceSubscription) Cancel() {
	if sub.disabled {
		return
	}
	rs := sub.store
	rs.mu.Lock()
	defer rs.mu.Unlock()
	entry, ok := rs.entries[sub.key]
	if !ok {
		return
	}
	delete(entry.subs, sub.id)
	if len(entry.subs) == 0 && entry.retryTimer != nil {
		entry.retryTimer.Stop()
		entry.retryTimer = nil
	}
}

// Mutate triggers an explicit refetch of key, bypassing the dedupe window,
// and fans the result out to every subscriber. It is a no-op for unknown
// keys or keys with no registered fetcher.
func (rs *ResourceStore) Mutate(key string) {
	rs.mu.Lock()
	entry, ok := rs.entries[key]
	if !ok || entry.fetcher == nil {
		rs.mu.Unlock()
		return
	}
	entry.retries = 0
	if entry.retryTimer != nil {
		entry.retryTimer.Stop()
		entry.retryTimer = nil
	}
	notify := rs.maybeFetchLocked(entry, true)
	rs.mu.Unlock()
	notify()
}

// MutateValue optimistically sets the value for key without a network round
// trip. An in-flight fetch issued before this call can no longer overwrite
// the value.
func (rs *ResourceStore) MutateValue(key string, data any) {
	rs.mu.Lock()
	entry, ok := rs.entries[key]
	if !ok {
		entry = &resourceEntry{
			key:  key,
			subs: make(map[int64]func(ResourceState)),
		}
		rs.entries[key] = entry
	}
	entry.issueSeq++
	entry.appliedSeq = entry.issueSeq
	entry.data = data
	entry.hasData = true
	entry.err = nil
	notify := rs.notifierLocked(entry)
	rs.mu.Unlock()
	notify()
}

// SetOnline tracks network availability. While offline no fetches are
// issued (scheduled retries are suppressed and resume later); transitioning
// back online revalidates every entry that still has subscribers.
func (rs *ResourceStore) SetOnline(online bool) {
	rs.mu.Lock()
	was := rs.online
	rs.online = online
	var notifiers []func()
	if online && !was {
		for _, entry := range rs.entries {
			if len(entry.subs) > 0 && entry.fetcher != nil {
				notifiers = append(notifiers, rs.maybeFetchLocked(entry, true))
			}
		}
	}
	rs.mu.Unlock()
	for _, notify := range notifiers {
		notify()
	}
}

// Close stops all pending timers and detaches every subscriber.
func (rs *ResourceStore) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.closed = true
	for _, entry := range rs.entries {
		if entry.retryTimer != nil {
			entry.retryTimer.Stop()
			entry.retryTimer = nil
		}
		entry.subs = make(map[int64]func(ResourceState))
	}
}

// maybeFetchLocked issues a fetch for the entry unless the store is closed
// or offline, a fetch is already in flight, or (when not forced) the dedupe
// window still covers the last one. Callers must hold rs.mu and invoke the
// returned notifier after unlocking.
func (rs *ResourceStore) maybeFetchLocked(entry *resourceEntry, force bool) func() {
	if rs.closed || !rs.online || entry.inflight || entry.fetcher == nil {
		return func() {}
	}
	if !force && !entry.lastStart.IsZero() && rs.scheduler.Now().Sub(entry.lastStart) < rs.dedupeWindow {
		if rs.metrics != nil {
			rs.metrics.RecordResourceStaleHit()
		}
		return func() {}
	}

	entry.inflight = true
	entry.lastStart = rs.scheduler.Now()
	entry.issueSeq++
	seq := entry.issueSeq
	entry.fetchSeq = seq
	fetcher := entry.fetcher
	key := entry.key

	if rs.metrics != nil {
		rs.metrics.RecordResourceRevalidation()
	}
	rs.logResource("Resource fetch", "key", key, "seq", seq)

	go func() {
		data, err := fetcher(context.Background())
		rs.complete(key, seq, data, err)
	}()

	return rs.notifierLocked(entry)
}

// complete applies a fetch outcome. Sequencing enforces last-resolved-wins:
// an outcome older than the already applied one is dropped so out-of-order
// resolution never clobbers fresher state.
func (rs *ResourceStore) complete(key string, seq uint64, data any, err error) {
	rs.mu.Lock()
	entry, ok := rs.entries[key]
	if !ok {
		rs.mu.Unlock()
		return
	}
	if seq == entry.fetchSeq {
		entry.inflight = false
		entry.fetchSeq = 0
	}

	if err != nil {
		norm := Normalize(err)
		rs.fireErrorHook(key, norm)

		if seq >= entry.appliedSeq {
			entry.appliedSeq = seq
			entry.err = norm

			retryable := rs.shouldRetry(norm) && entry.retries < rs.maxRetries && len(entry.subs) > 0
			if retryable {
				entry.retries++
				if rs.metrics != nil {
					rs.metrics.RecordResourceRetry()
				}
				delay := rs.retryDelay.Delay(entry.retries - 1)
				rs.logResource("Resource retry scheduled", "key", key, "retry", entry.retries, "delay", delay)
				if entry.retryTimer != nil {
					entry.retryTimer.Stop()
				}
				entry.retryTimer = rs.scheduler.AfterFunc(delay, func() { rs.retry(key) })
			}
		}
		notify := rs.notifierLocked(entry)
		rs.mu.Unlock()
		notify()
		return
	}

	if seq < entry.appliedSeq {
		rs.mu.Unlock()
		return
	}

	entry.appliedSeq = seq
	entry.data = data
	entry.hasData = true
	entry.err = nil
	entry.retries = 0
	if entry.retryTimer != nil {
		entry.retryTimer.Stop()
		entry.retryTimer = nil
	}
	notify := rs.notifierLocked(entry)
	rs.mu.Unlock()
	notify()
}

func (rs *ResourceStore) retry(key string) {
	rs.mu.Lock()
	entry, ok := rs.entries[key]
	if !ok || len(entry.subs) == 0 {
		rs.mu.Unlock()
		return
	}
	entry.retryTimer = nil
	notify := rs.maybeFetchLocked(entry, true)
	rs.mu.Unlock()
	notify()
}

// notifierLocked snapshots the entry state and subscriber list; the returned
// closure fans the state out without holding the store lock.
func (rs *ResourceStore) notifierLocked(entry *resourceEntry) func() {
	state := entry.state()
	callbacks := make([]func(ResourceState), 0, len(entry.subs))
	for _, cb := range entry.subs {
		callbacks = append(callbacks, cb)
	}
	return func() {
		for _, cb := range callbacks {
			cb(state)
		}
	}
}

func (rs *ResourceStore) fireErrorHook(key string, err error) {
	if rs.onError == nil {
		return
	}
	defer func() { _ = recover() }()
	rs.onError(key, err)
}

func (rs *ResourceStore) logResource(msg string, keysAndValues ...any) {
	if rs.logger == nil {
		return
	}
	defer func() { _ = recover() }()
	rs.logger.Debug(msg, keysAndValues...)
}

func (e *resourceEntry) state() ResourceState {
	return ResourceState{
		Data:      e.data,
		Err:       e.err,
		IsLoading: e.inflight && !e.hasData,
	}
}
