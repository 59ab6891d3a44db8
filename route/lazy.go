package route

import (
	"context"
	"sync"
)

// Element is an opaque renderable owned by the caller; the router never
// inspects it.
type Element any

// ElementFactory builds an element asynchronously (code-split pages, views
// needing one-time setup).
type ElementFactory func(ctx context.Context) (Element, error)

// LazyElement resolves its factory exactly once and caches the outcome,
// including a failed one. While resolution is pending, the gate renders a
// loading placeholder instead.
type LazyElement struct {
	mu       sync.Mutex
	factory  ElementFactory
	started  bool
	done     chan struct{}
	element  Element
	err      error
}

// Eager wraps an already built element.
func Eager(element Element) *LazyElement {
	l := &LazyElement{element: element, done: make(chan struct{})}
	close(l.done)
	return l
}

// Lazy defers element construction to the factory.
func Lazy(factory ElementFactory) *LazyElement {
	return &LazyElement{factory: factory, done: make(chan struct{})}
}

// Resolve blocks until the element is built (or ctx is cancelled). Only the
// first call runs the factory; everyone else shares its result.
func (l *LazyElement) Resolve(ctx context.Context) (Element, error) {
	l.start()
	select {
	case <-l.done:
		return l.element, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports the element if resolution has completed, kicking off
// background resolution on first call otherwise.
func (l *LazyElement) Ready() (Element, bool) {
	l.start()
	select {
	case <-l.done:
		return l.element, l.err == nil
	default:
		return nil, false
	}
}

// Err returns the resolution error, if resolution finished with one.
func (l *LazyElement) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

func (l *LazyElement) start() {
	l.mu.Lock()
	if l.started || l.factory == nil {
		l.mu.Unlock()
		return
	}
	l.started = true
	factory := l.factory
	l.mu.Unlock()

	go func() {
		element, err := factory(context.Background())
		l.element = element
		l.err = err
		close(l.done)
	}()
}
