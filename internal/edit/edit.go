// Package edit tracks the single in-flight cell edit of a grid.
//
// The machine moves Idle -> Editing -> Idle; commit and cancel both
// return to Idle. Writing the committed value back into the row store
// is the engine's job, so the machine itself stays a pure state holder.
package edit

import "github.com/raphi011/grid/internal/rowstore"

// Session is one live cell edit.
type Session struct {
	RowID    rowstore.ID
	Column   string
	Pending  any
	Original any
}

// Machine holds at most one session. Not safe for concurrent use; the
// engine serializes access.
type Machine struct {
	session *Session
}

// New creates an idle machine.
func New() *Machine {
	return &Machine{}
}

// Active returns the live session, if any.
func (m *Machine) Active() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Editing reports whether a session is live.
func (m *Machine) Editing() bool { return m.session != nil }

// Start opens a session for (rowID, column) with the given original
// value as the initial pending value. If a session is already live it
// is returned so the caller can apply the switch policy (commit it);
// the new session replaces it either way.
func (m *Machine) Start(rowID rowstore.ID, column string, original any) (Session, bool) {
	var prior Session
	had := m.session != nil
	if had {
		prior = *m.session
	}
	m.session = &Session{RowID: rowID, Column: column, Pending: original, Original: original}
	return prior, had
}

// SetPending updates the pending value of the live session. Reports
// false when idle.
func (m *Machine) SetPending(v any) bool {
	if m.session == nil {
		return false
	}
	m.session.Pending = v
	return true
}

// Commit closes the live session and returns it for the caller to
// write through. Reports false when idle.
func (m *Machine) Commit() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	s := *m.session
	m.session = nil
	return s, true
}

// Cancel discards the live session, leaving the row store untouched.
// Reports false when idle.
func (m *Machine) Cancel() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	s := *m.session
	m.session = nil
	return s, true
}

// Drop clears the session without commit or cancel semantics. Used
// when the edited row is removed from the store mid-edit.
func (m *Machine) Drop(rowID rowstore.ID) bool {
	if m.session == nil || m.session.RowID != rowID {
		return false
	}
	m.session = nil
	return true
}
