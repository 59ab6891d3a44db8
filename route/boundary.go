package route

import (
	"runtime/debug"

	"github.com/ambiyansyah-risyal/antrean"
)

// Boundary guards element rendering: a panic anywhere inside render is
// caught, logged with its stack, and replaced by the fallback element so one
// broken view cannot take down the whole tree.
type Boundary struct {
	logger   antrean.Logger
	fallback Element
}

// NewBoundary creates a boundary with a fallback element (typically an
// error view offering a reload action).
func NewBoundary(logger antrean.Logger, fallback Element) *Boundary {
	return &Boundary{logger: logger, fallback: fallback}
}

// Render runs the render function, substituting the fallback on panic.
func (b *Boundary) Render(render func() Element) (element Element) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				func() {
					defer func() { _ = recover() }()
					b.logger.Error("Render failed", "panic", r, "stack", string(debug.Stack()))
				}()
			}
			element = b.fallback
		}
	}()
	return render()
}
