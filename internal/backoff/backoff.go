// Package backoff provides retry delay calculators shared by the client's
// transport retries and the resource store's revalidation retries.
package backoff

import (
	"math/rand"
	"time"
)

// Calculator computes the delay before a retry attempt. Attempt counting
// starts at 0 for the delay after the first failure.
type Calculator interface {
	Delay(attempt int) time.Duration
}

// Fixed waits the same interval between every attempt.
type Fixed struct {
	Interval time.Duration
}

func (f Fixed) Delay(int) time.Duration { return f.Interval }

// ExponentialJitter grows the delay geometrically and adds proportional
// random jitter to avoid thundering herds.
type ExponentialJitter struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64 // fraction of the delay, clamped to [0,1]
}

func (e ExponentialJitter) Delay(attempt int) time.Duration {
	d := float64(e.Initial)
	for i := 0; i < attempt; i++ {
		d *= e.Multiplier
	}
	delay := time.Duration(d)
	if e.Max > 0 && delay > e.Max {
		delay = e.Max
	}
	jitter := e.Jitter
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter > 0 {
		delay += time.Duration(float64(delay) * jitter * rand.Float64())
	}
	return delay
}
