package engine

import (
	"fmt"

	"github.com/raphi011/grid/internal/rowstore"
)

// Select applies a plain click on id: replace in single mode, toggle
// in multi mode. Fails with rowstore.ErrNotFound for identities not in
// the store, keeping the selection a subset of stored rows.
func (e *Engine) Select(id rowstore.ID) error {
	if _, err := e.store.Get(id); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	e.notify(e.sel.Select(id), false)
	return nil
}

// SelectRange selects the contiguous run between the selection anchor
// and target in the current view order.
func (e *Engine) SelectRange(target rowstore.ID) error {
	if _, err := e.store.Get(target); err != nil {
		return fmt.Errorf("select range: %w", err)
	}
	e.refresh()
	e.notify(e.sel.SelectRange(target, e.result.IDs), false)
	return nil
}

// SelectAll selects every identity in the current view result, which
// under an active filter is a subset of the store.
func (e *Engine) SelectAll() {
	e.refresh()
	e.notify(e.sel.SelectAll(e.result.IDs), false)
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() {
	e.notify(e.sel.Clear(), false)
}

// Selected reports whether id is selected.
func (e *Engine) Selected(id rowstore.ID) bool {
	return e.sel.Has(id)
}
