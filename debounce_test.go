package antrean

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerOnlyLastCallFires(t *testing.T) {
	scheduler := newManualScheduler()
	debouncer := NewDebouncerWithScheduler(300*time.Millisecond, scheduler)

	var fired atomic.Int32
	var last atomic.Int32
	for i := int32(1); i <= 3; i++ {
		i := i
		debouncer.Call(func() {
			fired.Add(1)
			last.Store(i)
		})
	}

	scheduler.Advance(300 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("Expected 1 callback, got %d", fired.Load())
	}
	if last.Load() != 3 {
		t.Errorf("Expected only the last callback to fire, got %d", last.Load())
	}
}

func TestDebouncerSpacedCallsEachFire(t *testing.T) {
	scheduler := newManualScheduler()
	debouncer := NewDebouncerWithScheduler(100*time.Millisecond, scheduler)

	var fired atomic.Int32
	debouncer.Call(func() { fired.Add(1) })
	scheduler.Advance(100 * time.Millisecond)
	debouncer.Call(func() { fired.Add(1) })
	scheduler.Advance(100 * time.Millisecond)

	if fired.Load() != 2 {
		t.Errorf("Expected 2 callbacks for settled calls, got %d", fired.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	scheduler := newManualScheduler()
	debouncer := NewDebouncerWithScheduler(100*time.Millisecond, scheduler)

	var fired atomic.Int32
	debouncer.Call(func() { fired.Add(1) })
	debouncer.Stop()
	scheduler.Advance(time.Hour)

	if fired.Load() != 0 {
		t.Error("Expected no callback after Stop")
	}

	debouncer.Call(func() { fired.Add(1) })
	scheduler.Advance(time.Hour)
	if fired.Load() != 0 {
		t.Error("Expected calls after Stop to be rejected")
	}
}
