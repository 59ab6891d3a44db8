// Package singleflight coalesces concurrent identical calls so only one
// executes while the rest wait for its result.
package singleflight

import (
	"sync"
	"time"
)

// Group manages a set of in-flight calls keyed by string. Completed calls
// linger briefly so near-simultaneous duplicates still coalesce before the
// entry is evicted.
type Group struct {
	mu     sync.Mutex
	m      map[string]*call
	linger time.Duration
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

// New creates a Group whose completed entries linger for the given duration.
func New(linger time.Duration) *Group {
	return &Group{
		m:      make(map[string]*call),
		linger: linger,
	}
}

// Do executes fn once per key, returning the owning call's results to every
// concurrent caller. The boolean reports whether this caller shared another
// call's result instead of executing fn itself.
func (g *Group) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	if g.linger <= 0 {
		g.mu.Lock()
		delete(g.m, key)
		g.mu.Unlock()
		return c.val, c.err, false
	}

	time.AfterFunc(g.linger, func() {
		g.mu.Lock()
		delete(g.m, key)
		g.mu.Unlock()
	})
	return c.val, c.err, false
}

// Forget drops the entry for key so the next Do executes fn again.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
