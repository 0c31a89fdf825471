package engine

import (
	"fmt"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/rowstore"
)

// StartEdit opens an edit session on (id, key), capturing the current
// cell value as the original. Fails with ErrNotEditable when the
// column is not editable and rowstore.ErrNotFound when the row is
// absent; a live session is untouched by a failed start.
//
// Starting while another session is live commits that session first
// (switch commits): losing typed input to an accidental focus change
// is worse than an unwanted write.
func (e *Engine) StartEdit(id rowstore.ID, key string) error {
	col, ok := e.cols.Snapshot().Col(key)
	if !ok {
		return fmt.Errorf("start edit: column %q: %w", key, columns.ErrNotFound)
	}
	if !col.Editable {
		return fmt.Errorf("start edit: column %q: %w", key, ErrNotEditable)
	}
	row, err := e.store.Get(id)
	if err != nil {
		return fmt.Errorf("start edit: %w", err)
	}

	if prior, ok := e.edits.Active(); ok {
		if err := e.commitCell(prior.RowID, prior.Column, prior.Pending); err != nil {
			return fmt.Errorf("commit prior edit: %w", err)
		}
	}
	e.edits.Start(id, key, row.Fields[key])
	e.notify(false, true)
	return nil
}

// UpdatePendingValue replaces the pending value of the live session.
// A no-op when no edit is active.
func (e *Engine) UpdatePendingValue(v any) {
	e.notify(false, e.edits.SetPending(v))
}

// CommitEdit writes the pending value into the row store and closes
// the session. A no-op when no edit is active.
func (e *Engine) CommitEdit() error {
	s, ok := e.edits.Commit()
	if !ok {
		return nil
	}
	if err := e.commitCell(s.RowID, s.Column, s.Pending); err != nil {
		return fmt.Errorf("commit edit: %w", err)
	}
	e.notify(false, true)
	return nil
}

// commitCell writes one cell value through the store's upsert, the
// same write path row ingestion uses. The row keeps its base-order
// position.
func (e *Engine) commitCell(id rowstore.ID, key string, value any) error {
	row, err := e.store.Get(id)
	if err != nil {
		return err
	}
	row.Fields[key] = value
	_, err = e.store.Upsert([]rowstore.Row{row})
	return err
}

// CancelEdit discards the pending value, leaving the row store
// untouched. A no-op when no edit is active.
func (e *Engine) CancelEdit() {
	_, ok := e.edits.Cancel()
	e.notify(false, ok)
}
