// Package selection tracks which row identities of a grid are
// selected. Membership is keyed by identity, not view position, so a
// selection survives sorting, filtering, and paging; it shrinks only
// when rows leave the store.
package selection

import "github.com/raphi011/grid/internal/rowstore"

// Mode controls how Select mutates the set.
type Mode int

const (
	// ModeSingle keeps at most one selected identity; selecting
	// replaces the set.
	ModeSingle Mode = iota
	// ModeMulti toggles membership per identity and supports range
	// and select-all operations.
	ModeMulti
)

// Set is the selection state machine. Not safe for concurrent use;
// the engine serializes access.
type Set struct {
	mode    Mode
	members map[rowstore.ID]bool
	anchor  rowstore.ID // last explicitly selected identity
}

// New creates an empty selection in the given mode.
func New(mode Mode) *Set {
	return &Set{mode: mode, members: make(map[rowstore.ID]bool)}
}

// Mode returns the selection mode.
func (s *Set) Mode() Mode { return s.mode }

// Select applies a plain click on id. Single mode replaces the set;
// multi mode toggles membership. Returns true if the set changed.
func (s *Set) Select(id rowstore.ID) bool {
	switch s.mode {
	case ModeSingle:
		if len(s.members) == 1 && s.members[id] {
			return false
		}
		clear(s.members)
		s.members[id] = true
		s.anchor = id
		return true
	default:
		if s.members[id] {
			delete(s.members, id)
		} else {
			s.members[id] = true
		}
		s.anchor = id
		return true
	}
}

// SelectRange selects the contiguous run between the current anchor
// and target within viewOrder. Without an anchor in the view it
// behaves like Select. Single mode ignores the range and selects the
// target alone. Returns true if the set changed.
func (s *Set) SelectRange(target rowstore.ID, viewOrder []rowstore.ID) bool {
	if s.mode == ModeSingle {
		return s.Select(target)
	}
	ai, ti := -1, -1
	for i, id := range viewOrder {
		if id == s.anchor {
			ai = i
		}
		if id == target {
			ti = i
		}
	}
	if ti == -1 {
		return false
	}
	if ai == -1 {
		return s.Select(target)
	}
	if ai > ti {
		ai, ti = ti, ai
	}
	changed := false
	for _, id := range viewOrder[ai : ti+1] {
		if !s.members[id] {
			s.members[id] = true
			changed = true
		}
	}
	// The anchor stays put so successive range selects pivot around
	// the same point, matching common shift-click behavior.
	return changed
}

// SelectAll selects every identity in viewOrder (the current view, not
// the whole store). Returns true if the set changed.
func (s *Set) SelectAll(viewOrder []rowstore.ID) bool {
	changed := false
	for _, id := range viewOrder {
		if !s.members[id] {
			s.members[id] = true
			changed = true
		}
	}
	return changed
}

// Clear empties the selection. Returns true if the set changed.
func (s *Set) Clear() bool {
	if len(s.members) == 0 {
		return false
	}
	clear(s.members)
	s.anchor = ""
	return true
}

// Prune drops identities for which keep reports false. Called after
// row removal so the set never references rows outside the store.
// Returns true if the set changed.
func (s *Set) Prune(keep func(rowstore.ID) bool) bool {
	changed := false
	for id := range s.members {
		if !keep(id) {
			delete(s.members, id)
			changed = true
		}
	}
	if s.anchor != "" && !keep(s.anchor) {
		s.anchor = ""
	}
	return changed
}

// Has reports whether id is selected.
func (s *Set) Has(id rowstore.ID) bool { return s.members[id] }

// Len returns the number of selected identities.
func (s *Set) Len() int { return len(s.members) }

// IDs returns the selected identities ordered by viewOrder; selected
// identities not present in the view follow in the given fallback
// order.
func (s *Set) IDs(viewOrder, fallback []rowstore.ID) []rowstore.ID {
	out := make([]rowstore.ID, 0, len(s.members))
	emitted := make(map[rowstore.ID]bool, len(s.members))
	for _, id := range viewOrder {
		if s.members[id] && !emitted[id] {
			out = append(out, id)
			emitted[id] = true
		}
	}
	for _, id := range fallback {
		if s.members[id] && !emitted[id] {
			out = append(out, id)
			emitted[id] = true
		}
	}
	return out
}
