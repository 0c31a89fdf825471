// Package rowstore holds the canonical row collection of a grid.
//
// The store maps stable row identities to records and remembers the
// insertion order, which serves as the base display order when no sort
// is active. All reads used by the view pipeline go through immutable
// snapshots carrying a version counter, so derived state can detect
// staleness without diffing contents.
package rowstore

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a row identity that is not present in the store.
var ErrNotFound = errors.New("row not found")

// ID is the stable identity of a row. Two rows with the same ID are the
// same logical row even if their field values differ between updates.
type ID string

// Row is one record: an identity plus an open set of named fields.
type Row struct {
	ID     ID
	Fields map[string]any
}

// clone returns a copy of the row with its own field map, so callers
// keeping a reference to the input cannot mutate stored state.
func (r Row) clone() Row {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{ID: r.ID, Fields: fields}
}

// Store owns the row collection. It is not safe for concurrent use;
// the engine serializes all access.
type Store struct {
	rows    map[ID]Row
	order   []ID // insertion order, spliced by Move
	version uint64
	snap    *Snapshot // cached until the next mutation
}

// New creates an empty store.
func New() *Store {
	return &Store{rows: make(map[ID]Row)}
}

// UpsertResult reports which identities a batch inserted vs. replaced.
type UpsertResult struct {
	Inserted []ID
	Updated  []ID
}

// Upsert inserts new rows or replaces the records of existing ones.
// Existing rows keep their position in the base order; new rows append
// in batch order. The batch is atomic: if any row has an empty identity
// or the batch names the same identity twice, nothing is applied.
func (s *Store) Upsert(rows []Row) (UpsertResult, error) {
	seen := make(map[ID]bool, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			return UpsertResult{}, fmt.Errorf("upsert batch row %d: empty row ID", i)
		}
		if seen[r.ID] {
			return UpsertResult{}, fmt.Errorf("upsert batch row %d: duplicate row ID %q", i, r.ID)
		}
		seen[r.ID] = true
	}

	var res UpsertResult
	for _, r := range rows {
		if _, ok := s.rows[r.ID]; ok {
			res.Updated = append(res.Updated, r.ID)
		} else {
			s.order = append(s.order, r.ID)
			res.Inserted = append(res.Inserted, r.ID)
		}
		s.rows[r.ID] = r.clone()
	}
	if len(rows) > 0 {
		s.bump()
	}
	return res, nil
}

// Remove deletes the given identities and returns the ones that were
// actually present. Absent identities are ignored.
func (s *Store) Remove(ids []ID) []ID {
	var removed []ID
	drop := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.rows[id]; ok {
			delete(s.rows, id)
			drop[id] = true
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	s.order = kept
	s.bump()
	return removed
}

// Get returns the row for id.
func (s *Store) Get(id ID) (Row, error) {
	r, ok := s.rows[id]
	if !ok {
		return Row{}, fmt.Errorf("row %q: %w", id, ErrNotFound)
	}
	return r.clone(), nil
}

// Move splices the row to a new position in the base order. The target
// index is clamped to the valid range.
func (s *Store) Move(id ID, toIndex int) error {
	from := -1
	for i, cur := range s.order {
		if cur == id {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("row %q: %w", id, ErrNotFound)
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(s.order) {
		toIndex = len(s.order) - 1
	}
	if toIndex == from {
		return nil
	}
	s.order = append(s.order[:from], s.order[from+1:]...)
	s.order = append(s.order[:toIndex], append([]ID{id}, s.order[toIndex:]...)...)
	s.bump()
	return nil
}

// Len returns the number of rows in the store.
func (s *Store) Len() int {
	return len(s.rows)
}

// Version returns the current mutation counter.
func (s *Store) Version() uint64 {
	return s.version
}

func (s *Store) bump() {
	s.version++
	s.snap = nil
}

// Snapshot is an immutable view of the store at one version. Callers
// must not mutate the returned order slice or row fields; all writes go
// through Store entrypoints.
type Snapshot struct {
	version uint64
	order   []ID
	rows    map[ID]Row
}

// Snapshot returns the current immutable view. Snapshots taken at the
// same version share storage; taking one is O(N) only after a mutation.
func (s *Store) Snapshot() Snapshot {
	if s.snap == nil {
		order := make([]ID, len(s.order))
		copy(order, s.order)
		rows := make(map[ID]Row, len(s.rows))
		for id, r := range s.rows {
			rows[id] = r
		}
		s.snap = &Snapshot{version: s.version, order: order, rows: rows}
	}
	return *s.snap
}

// Version returns the store version this snapshot was taken at.
func (sn Snapshot) Version() uint64 { return sn.version }

// Order returns the base display order of all row identities.
func (sn Snapshot) Order() []ID { return sn.order }

// Row returns the record for id, if present.
func (sn Snapshot) Row(id ID) (Row, bool) {
	r, ok := sn.rows[id]
	return r, ok
}

// Has reports whether id is present in the snapshot.
func (sn Snapshot) Has(id ID) bool {
	_, ok := sn.rows[id]
	return ok
}

// Len returns the number of rows in the snapshot.
func (sn Snapshot) Len() int { return len(sn.rows) }
