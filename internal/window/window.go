// Package window computes the materialized slice of a derived view.
//
// Given a view of N rows, a viewport extent, and a scroll offset, a
// Windower returns the inclusive index range that must be rendered,
// expanded by overscan and clamped to the view bounds. It is decoupled
// from the view pipeline: scrolling re-runs only this arithmetic,
// never a derive pass.
package window

import "sort"

// Range is an inclusive index range. An empty window has Last < First.
type Range struct {
	First int
	Last  int
}

// Count returns the number of indices in the range.
func (r Range) Count() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains reports whether i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.First && i <= r.Last
}

// Windower maps scroll offsets to row index ranges. It supports a
// uniform mode (every row the same extent, O(1) mapping) and a
// variable mode (per-row extents, O(log N) prefix-sum lookup).
type Windower struct {
	overscan int
	extent   int   // uniform row extent; 0 in variable mode
	offsets  []int // cumulative extents; offsets[i] = start of row i, len N+1
}

// NewUniform creates a windower where every row spans itemExtent.
func NewUniform(itemExtent, overscan int) *Windower {
	if itemExtent < 1 {
		itemExtent = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	return &Windower{extent: itemExtent, overscan: overscan}
}

// NewVariable creates a windower with one extent per row. Extents
// below 1 are treated as 1 so every row stays addressable.
func NewVariable(extents []int, overscan int) *Windower {
	if overscan < 0 {
		overscan = 0
	}
	offsets := make([]int, len(extents)+1)
	for i, e := range extents {
		if e < 1 {
			e = 1
		}
		offsets[i+1] = offsets[i] + e
	}
	return &Windower{overscan: overscan, offsets: offsets}
}

// Uniform reports whether the windower is in uniform-extent mode.
func (w *Windower) Uniform() bool { return w.extent > 0 }

// Len returns the row count a variable windower was built for. In
// uniform mode the count comes from the caller.
func (w *Windower) Len() int {
	if w.Uniform() {
		return 0
	}
	return len(w.offsets) - 1
}

// TotalExtent returns the summed extent of n rows.
func (w *Windower) TotalExtent(n int) int {
	if w.Uniform() {
		return n * w.extent
	}
	n = clamp(n, 0, w.Len())
	return w.offsets[n]
}

// indexAt returns the row index whose span contains offset.
func (w *Windower) indexAt(offset, n int) int {
	if offset <= 0 {
		return 0
	}
	if w.Uniform() {
		return clamp(offset/w.extent, 0, n-1)
	}
	// First row whose end lies beyond the offset.
	i := sort.Search(n, func(i int) bool { return w.offsets[i+1] > offset })
	return clamp(i, 0, n-1)
}

// Window computes the inclusive row range to materialize for a view of
// n rows. The scroll offset is clamped first, so a stale offset after
// the view shrank still yields a valid window at the new maximum.
func (w *Windower) Window(n, viewport, scrollOffset int) Range {
	if !w.Uniform() {
		n = clamp(n, 0, w.Len())
	}
	if n <= 0 || viewport <= 0 {
		return Range{First: 0, Last: -1}
	}
	scrollOffset = w.ClampOffset(n, viewport, scrollOffset)

	first := w.indexAt(scrollOffset, n)
	last := w.indexAt(scrollOffset+viewport-1, n)

	first = clamp(first-w.overscan, 0, n-1)
	last = clamp(last+w.overscan, 0, n-1)
	return Range{First: first, Last: last}
}

// ClampOffset normalizes a scroll offset to the valid range for a view
// of n rows: [0, totalExtent-viewport], never negative.
func (w *Windower) ClampOffset(n, viewport, offset int) int {
	max := w.TotalExtent(n) - viewport
	if max < 0 {
		max = 0
	}
	return clamp(offset, 0, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
