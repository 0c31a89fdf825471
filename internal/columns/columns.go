// Package columns manages the column definitions of a grid: key,
// header, data type, comparator and filter behavior, plus the display
// attributes (order, visibility, width) the ordering controller and
// renderer mutate at runtime.
package columns

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateKey indicates two column definitions share a key.
var ErrDuplicateKey = errors.New("duplicate column key")

// ErrColumnSetMismatch indicates a reorder that does not name exactly
// the registered key set.
var ErrColumnSetMismatch = errors.New("column set mismatch")

// ErrNotFound indicates an unknown column key.
var ErrNotFound = errors.New("column not found")

// ErrMissingComparator indicates a custom-typed column without an
// explicit comparator. Such a column is simply not sortable; the view
// pipeline skips it rather than failing a derive pass.
var ErrMissingComparator = errors.New("missing comparator")

// Type describes how cell values compare and filter by default.
type Type string

const (
	TypeText   Type = "text"
	TypeNumber Type = "number"
	TypeDate   Type = "date"
	TypeCustom Type = "custom"
)

// Align is the horizontal cell alignment hint for renderers.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Def declares one column at configuration time.
type Def struct {
	Key        string
	Header     string
	Type       Type
	Sortable   bool
	Filterable bool
	Editable   bool
	Width      int // 0 = let the renderer size it
	Align      Align
	Frozen     bool

	// Compare orders two cell values (-1, 0, 1). Required for
	// TypeCustom columns that should be sortable; for the other types
	// a comparator is derived when nil.
	Compare func(a, b any) int

	// Filter evaluates a column filter query against a cell value.
	// When nil, the default is a case-insensitive substring match on
	// the stringified value.
	Filter func(value any, query string) bool
}

// Column is the runtime state of a registered column: its definition
// plus the mutable display attributes.
type Column struct {
	Def
	Visible bool
}

// Registry owns the registered columns and their display order. Not
// safe for concurrent use; the engine serializes access.
type Registry struct {
	cols    map[string]*Column
	order   []string
	version uint64
	snap    *Snapshot
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cols: make(map[string]*Column)}
}

// Register adds column definitions in the given display order. Keys
// must be non-empty and unique across all registered columns; on any
// violation nothing is added.
func (r *Registry) Register(defs []Def) error {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Key == "" {
			return fmt.Errorf("column %d: empty key", i)
		}
		if seen[d.Key] {
			return fmt.Errorf("column %q: %w", d.Key, ErrDuplicateKey)
		}
		if _, ok := r.cols[d.Key]; ok {
			return fmt.Errorf("column %q: %w", d.Key, ErrDuplicateKey)
		}
		seen[d.Key] = true
	}
	for _, d := range defs {
		if d.Align == "" {
			d.Align = AlignLeft
		}
		if d.Type == "" {
			d.Type = TypeText
		}
		if d.Header == "" {
			d.Header = d.Key
		}
		r.cols[d.Key] = &Column{Def: d, Visible: true}
		r.order = append(r.order, d.Key)
	}
	if len(defs) > 0 {
		r.bump()
	}
	return nil
}

// SetOrder replaces the display order. The given keys must be exactly
// the registered set: no drops, no extras, no duplicates.
func (r *Registry) SetOrder(keys []string) error {
	if len(keys) != len(r.order) {
		return fmt.Errorf("got %d keys, have %d columns: %w", len(keys), len(r.order), ErrColumnSetMismatch)
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := r.cols[k]; !ok {
			return fmt.Errorf("unknown key %q: %w", k, ErrColumnSetMismatch)
		}
		if seen[k] {
			return fmt.Errorf("repeated key %q: %w", k, ErrColumnSetMismatch)
		}
		seen[k] = true
	}
	r.order = append(r.order[:0], keys...)
	r.bump()
	return nil
}

// Move splices the column to a new position in the display order.
// The target index is clamped to the valid range.
func (r *Registry) Move(key string, toIndex int) error {
	from := -1
	for i, k := range r.order {
		if k == key {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("column %q: %w", key, ErrNotFound)
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(r.order) {
		toIndex = len(r.order) - 1
	}
	if toIndex == from {
		return nil
	}
	r.order = append(r.order[:from], r.order[from+1:]...)
	r.order = append(r.order[:toIndex], append([]string{key}, r.order[toIndex:]...)...)
	r.bump()
	return nil
}

// SetVisible toggles a column's visibility.
func (r *Registry) SetVisible(key string, visible bool) error {
	c, ok := r.cols[key]
	if !ok {
		return fmt.Errorf("column %q: %w", key, ErrNotFound)
	}
	if c.Visible != visible {
		c.Visible = visible
		r.bump()
	}
	return nil
}

// SetWidth sets a column's width hint.
func (r *Registry) SetWidth(key string, width int) error {
	c, ok := r.cols[key]
	if !ok {
		return fmt.Errorf("column %q: %w", key, ErrNotFound)
	}
	if width < 0 {
		return fmt.Errorf("column %q: negative width %d", key, width)
	}
	if c.Width != width {
		c.Width = width
		r.bump()
	}
	return nil
}

// Version returns the current mutation counter.
func (r *Registry) Version() uint64 {
	return r.version
}

func (r *Registry) bump() {
	r.version++
	r.snap = nil
}

// Snapshot is an immutable view of the registry at one version.
type Snapshot struct {
	version uint64
	ordered []Column
	byKey   map[string]Column
}

// Snapshot returns the current immutable view.
func (r *Registry) Snapshot() Snapshot {
	if r.snap == nil {
		ordered := make([]Column, 0, len(r.order))
		byKey := make(map[string]Column, len(r.order))
		for _, k := range r.order {
			c := *r.cols[k]
			ordered = append(ordered, c)
			byKey[k] = c
		}
		r.snap = &Snapshot{version: r.version, ordered: ordered, byKey: byKey}
	}
	return *r.snap
}

// Version returns the registry version this snapshot was taken at.
func (sn Snapshot) Version() uint64 { return sn.version }

// Ordered returns all columns in display order.
func (sn Snapshot) Ordered() []Column { return sn.ordered }

// Visible returns the visible columns in display order.
func (sn Snapshot) Visible() []Column {
	vis := make([]Column, 0, len(sn.ordered))
	for _, c := range sn.ordered {
		if c.Visible {
			vis = append(vis, c)
		}
	}
	return vis
}

// Col returns the column for key, if registered.
func (sn Snapshot) Col(key string) (Column, bool) {
	c, ok := sn.byKey[key]
	return c, ok
}

// Keys returns the registered keys in display order.
func (sn Snapshot) Keys() []string {
	keys := make([]string, len(sn.ordered))
	for i, c := range sn.ordered {
		keys[i] = c.Key
	}
	return keys
}

// Comparator resolves the ordering function for key. Returns
// ErrNotFound for unknown keys and ErrMissingComparator for custom
// columns without an explicit Compare.
func (sn Snapshot) Comparator(key string) (func(a, b any) int, error) {
	c, ok := sn.byKey[key]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", key, ErrNotFound)
	}
	if c.Compare != nil {
		return c.Compare, nil
	}
	switch c.Type {
	case TypeNumber:
		return compareNumbers, nil
	case TypeDate:
		return compareDates, nil
	case TypeCustom:
		return nil, fmt.Errorf("column %q: %w", key, ErrMissingComparator)
	default:
		return compareText, nil
	}
}

// Sortable reports whether sorting on key is possible: the column must
// exist, be marked sortable, and resolve a comparator.
func (sn Snapshot) Sortable(key string) bool {
	c, ok := sn.byKey[key]
	if !ok || !c.Def.Sortable {
		return false
	}
	_, err := sn.Comparator(key)
	return err == nil
}

// FilterMatch evaluates a column filter query against a cell value
// using the column's predicate, or the default substring match.
func (c Column) FilterMatch(value any, query string) bool {
	if c.Filter != nil {
		return c.Filter(value, query)
	}
	return strings.Contains(
		strings.ToLower(FormatValue(value)),
		strings.ToLower(query),
	)
}
