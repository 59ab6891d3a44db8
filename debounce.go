package antrean

import (
	"sync"
	"time"
)

// Debouncer delays a callback until input settles: each Call cancels the
// previously scheduled timer, so only the last scheduled callback fires.
// Used for filter inputs (date pickers, search fields) feeding resource keys.
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	scheduler Scheduler
	pending   TimerHandle
	stopped   bool
}

// NewDebouncer creates a debouncer with the given settle delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return NewDebouncerWithScheduler(delay, RealScheduler())
}

// NewDebouncerWithScheduler creates a debouncer on a custom scheduler.
func NewDebouncerWithScheduler(delay time.Duration, scheduler Scheduler) *Debouncer {
	return &Debouncer{delay: delay, scheduler: scheduler}
}

// Call schedules fn after the settle delay, cancelling any pending callback.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.scheduler.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback and rejects further calls.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
