package singleflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoCoalescesConcurrentCalls(t *testing.T) {
	group := New(0)

	var executions int32
	release := make(chan struct{})

	const callers = 10
	var wg sync.WaitGroup
	var shared int32

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err, wasShared := group.Do("key", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				<-release
				return "result", nil
			})
			if err != nil {
				t.Errorf("Do() returned error: %v", err)
			}
			if v != "result" {
				t.Errorf("Do() returned %v", v)
			}
			if wasShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Errorf("Expected 1 execution, got %d", got)
	}
	if got := atomic.LoadInt32(&shared); got != callers-1 {
		t.Errorf("Expected %d shared callers, got %d", callers-1, got)
	}
}

func TestDoPropagatesError(t *testing.T) {
	group := New(0)
	boom := errors.New("boom")

	_, err, _ := group.Do("key", func() (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected the owner's error, got %v", err)
	}
}

func TestSequentialCallsExecuteSeparately(t *testing.T) {
	group := New(0)

	var executions int32
	fn := func() (any, error) {
		return atomic.AddInt32(&executions, 1), nil
	}

	group.Do("key", fn)
	group.Do("key", fn)

	if got := atomic.LoadInt32(&executions); got != 2 {
		t.Errorf("Expected 2 executions without linger, got %d", got)
	}
}

func TestLingerCoalescesBrieflyAfterCompletion(t *testing.T) {
	group := New(200 * time.Millisecond)

	var executions int32
	fn := func() (any, error) {
		return atomic.AddInt32(&executions, 1), nil
	}

	group.Do("key", fn)
	v, _, shared := group.Do("key", fn)

	if !shared {
		t.Error("Expected the second call inside the linger window to share")
	}
	if v != int32(1) {
		t.Errorf("Expected the first call's result, got %v", v)
	}

	group.Forget("key")
	_, _, shared = group.Do("key", fn)
	if shared {
		t.Error("Expected a fresh execution after Forget")
	}
	if got := atomic.LoadInt32(&executions); got != 2 {
		t.Errorf("Expected 2 executions, got %d", got)
	}
}
