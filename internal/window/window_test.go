package window

import "testing"

func TestUniformWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		extent   int
		overscan int
		n        int
		viewport int
		offset   int
		want     Range
	}{
		{"top of list", 1, 0, 100, 10, 0, Range{0, 9}},
		{"mid list", 1, 0, 100, 10, 40, Range{40, 49}},
		{"with overscan", 1, 3, 100, 10, 40, Range{37, 52}},
		{"overscan clamped at top", 1, 3, 100, 10, 0, Range{0, 12}},
		{"overscan clamped at bottom", 1, 5, 100, 10, 95, Range{85, 99}},
		{"pixel extents", 10, 0, 100, 100, 250, Range{25, 34}},
		{"pixel extents straddling", 10, 0, 100, 100, 255, Range{25, 35}},
		{"viewport larger than content", 1, 2, 5, 50, 0, Range{0, 4}},
		{"empty view", 1, 5, 0, 10, 0, Range{0, -1}},
		{"zero viewport", 1, 5, 100, 0, 10, Range{0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := NewUniform(tt.extent, tt.overscan)
			got := w.Window(tt.n, tt.viewport, tt.offset)
			if got != tt.want {
				t.Errorf("Window(%d, %d, %d) = %+v, want %+v", tt.n, tt.viewport, tt.offset, got, tt.want)
			}
		})
	}
}

func TestWindowClampsAtEnd(t *testing.T) {
	t.Parallel()

	// 100 rows, viewport of 10, scrolled so index 95 would be first:
	// the window must end at 99, never 104.
	w := NewUniform(1, 5)
	got := w.Window(100, 10, 95)
	if got.Last != 99 {
		t.Errorf("Last = %d, want 99", got.Last)
	}
	if got.First < 0 || got.First > got.Last {
		t.Errorf("First = %d, want a valid start at or before %d", got.First, got.Last)
	}
}

func TestStaleOffsetAfterShrink(t *testing.T) {
	t.Parallel()

	w := NewUniform(1, 0)

	// Scrolled deep into a 1000-row view, then a filter cuts it to 20
	// rows: the old offset is clamped, not left dangling.
	got := w.Window(20, 10, 800)
	want := Range{10, 19}
	if got != want {
		t.Errorf("Window() after shrink = %+v, want %+v", got, want)
	}
	if off := w.ClampOffset(20, 10, 800); off != 10 {
		t.Errorf("ClampOffset() = %d, want 10", off)
	}
}

func TestVariableWindow(t *testing.T) {
	t.Parallel()

	// Rows of extent 10, 20, 30, 10, 10: offsets 0, 10, 30, 60, 70, 80.
	extents := []int{10, 20, 30, 10, 10}

	tests := []struct {
		name     string
		overscan int
		viewport int
		offset   int
		want     Range
	}{
		{"top", 0, 25, 0, Range{0, 1}},
		{"straddle second row", 0, 25, 15, Range{1, 2}},
		{"inside tall row", 0, 10, 35, Range{2, 2}},
		{"tail", 0, 20, 60, Range{3, 4}},
		{"overscan", 1, 10, 35, Range{1, 3}},
		{"offset past end clamps", 0, 20, 999, Range{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := NewVariable(extents, tt.overscan)
			got := w.Window(len(extents), tt.viewport, tt.offset)
			if got != tt.want {
				t.Errorf("Window(viewport=%d, offset=%d) = %+v, want %+v", tt.viewport, tt.offset, got, tt.want)
			}
		})
	}
}

func TestVariableTotalExtent(t *testing.T) {
	t.Parallel()

	w := NewVariable([]int{10, 20, 30}, 0)
	if got := w.TotalExtent(3); got != 60 {
		t.Errorf("TotalExtent(3) = %d, want 60", got)
	}
	if got := w.TotalExtent(2); got != 30 {
		t.Errorf("TotalExtent(2) = %d, want 30", got)
	}
	// Requests beyond the known rows clamp to what the windower has.
	if got := w.TotalExtent(99); got != 60 {
		t.Errorf("TotalExtent(99) = %d, want 60", got)
	}
}

func TestDegenerateExtents(t *testing.T) {
	t.Parallel()

	// Zero and negative extents are bumped to 1 so rows stay reachable.
	w := NewVariable([]int{0, -5, 3}, 0)
	if got := w.TotalExtent(3); got != 5 {
		t.Errorf("TotalExtent(3) = %d, want 5", got)
	}
	got := w.Window(3, 5, 0)
	want := Range{0, 2}
	if got != want {
		t.Errorf("Window() = %+v, want %+v", got, want)
	}

	u := NewUniform(0, 0)
	if got := u.Window(10, 5, 0); got != (Range{0, 4}) {
		t.Errorf("uniform zero extent Window() = %+v, want {0 4}", got)
	}
}

func TestRangeHelpers(t *testing.T) {
	t.Parallel()

	r := Range{First: 3, Last: 7}
	if r.Count() != 5 {
		t.Errorf("Count() = %d, want 5", r.Count())
	}
	if !r.Contains(3) || !r.Contains(7) || r.Contains(8) {
		t.Error("Contains() boundaries wrong")
	}

	empty := Range{First: 0, Last: -1}
	if empty.Count() != 0 {
		t.Errorf("empty Count() = %d, want 0", empty.Count())
	}
}
