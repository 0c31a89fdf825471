package engine

import (
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/window"
)

// Window computes the row index range to materialize for the current
// view, given the renderer's viewport extent and scroll offset. Pure
// windowing arithmetic: scrolling never re-derives the view.
func (e *Engine) Window(viewport, scrollOffset int) window.Range {
	e.refresh()
	return e.win.Window(len(e.result.IDs), viewport, scrollOffset)
}

// WindowIDs returns the identities inside the materialized window, in
// view order.
func (e *Engine) WindowIDs(viewport, scrollOffset int) []rowstore.ID {
	r := e.Window(viewport, scrollOffset)
	if r.Count() == 0 {
		return nil
	}
	return e.result.IDs[r.First : r.Last+1]
}

// ClampScrollOffset normalizes a scroll offset against the current
// view length, so an offset left over from a longer view lands on the
// new valid maximum.
func (e *Engine) ClampScrollOffset(viewport, offset int) int {
	e.refresh()
	return e.win.ClampOffset(len(e.result.IDs), viewport, offset)
}

// SetRowExtent switches windowing to uniform mode with the given
// per-row extent.
func (e *Engine) SetRowExtent(extent int) {
	if extent < 1 {
		extent = 1
	}
	e.rowExtent = extent
	e.win = window.NewUniform(extent, e.overscan)
}

// SetRowExtents switches windowing to variable mode with one extent
// per view row, in view order. The caller re-supplies extents when the
// view changes length.
func (e *Engine) SetRowExtents(extents []int) {
	e.win = window.NewVariable(extents, e.overscan)
}

// SetOverscan changes the overscan row count, keeping the current
// extent mode.
func (e *Engine) SetOverscan(n int) {
	if n < 0 {
		n = 0
	}
	e.overscan = n
	if e.win.Uniform() {
		e.win = window.NewUniform(e.rowExtent, n)
	}
	// Variable mode picks the new overscan up on the next SetRowExtents.
}
