package engine

import (
	"github.com/raphi011/grid/internal/rowstore"
)

// UpsertRows inserts or replaces rows. The batch is atomic: on error
// nothing is applied and no notification fires.
func (e *Engine) UpsertRows(rows []rowstore.Row) (rowstore.UpsertResult, error) {
	res, err := e.store.Upsert(rows)
	if err != nil {
		return rowstore.UpsertResult{}, err
	}
	e.notify(false, false)
	return res, nil
}

// RemoveRows deletes rows and cascades: removed identities are pruned
// from the selection, and a live edit on a removed row is dropped
// without committing. Absent identities are ignored.
func (e *Engine) RemoveRows(ids []rowstore.ID) []rowstore.ID {
	removed := e.store.Remove(ids)
	if len(removed) == 0 {
		return nil
	}

	selChanged := e.sel.Prune(func(id rowstore.ID) bool {
		_, err := e.store.Get(id)
		return err == nil
	})
	editChanged := false
	for _, id := range removed {
		if e.edits.Drop(id) {
			editChanged = true
			break
		}
	}

	e.notify(selChanged, editChanged)
	return removed
}

// GetRow returns the row for id. Fails with rowstore.ErrNotFound when
// absent.
func (e *Engine) GetRow(id rowstore.ID) (rowstore.Row, error) {
	return e.store.Get(id)
}

// MoveRow splices a row to a new position in the base order. Rejected
// with ErrReorderBlockedBySort while a sort is active, since the
// manual position would be invisible under the comparator order.
func (e *Engine) MoveRow(id rowstore.ID, toIndex int) error {
	if len(e.query.Sort) > 0 {
		return ErrReorderBlockedBySort
	}
	if err := e.store.Move(id, toIndex); err != nil {
		return err
	}
	e.notify(false, false)
	return nil
}
