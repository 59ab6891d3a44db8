package antrean

import "time"

// TimerHandle is a cancellable scheduled callback. Stop reports whether the
// callback was prevented from running.
type TimerHandle interface {
	Stop() bool
}

// Scheduler abstracts timer scheduling so retry and debounce timers are held
// as explicit, cancellable handles and can be fast-forwarded in tests.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) TimerHandle
	Now() time.Time
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}

func (realScheduler) Now() time.Time { return time.Now() }

// RealScheduler returns the wall-clock scheduler.
func RealScheduler() Scheduler { return realScheduler{} }
