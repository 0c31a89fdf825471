package engine

import "github.com/raphi011/grid/internal/columns"

// RegisterColumns adds column definitions. Fails with
// columns.ErrDuplicateKey on a key collision; on error nothing is
// registered.
func (e *Engine) RegisterColumns(defs []columns.Def) error {
	if err := e.cols.Register(defs); err != nil {
		return err
	}
	e.notify(false, false)
	return nil
}

// SetColumnOrder replaces the display order. The keys must name the
// registered set exactly (columns.ErrColumnSetMismatch otherwise).
func (e *Engine) SetColumnOrder(keys []string) error {
	if err := e.cols.SetOrder(keys); err != nil {
		return err
	}
	e.notify(false, false)
	return nil
}

// MoveColumn splices one column to a new display position.
func (e *Engine) MoveColumn(key string, toIndex int) error {
	if err := e.cols.Move(key, toIndex); err != nil {
		return err
	}
	e.notify(false, false)
	return nil
}

// SetColumnVisible toggles a column's visibility. Hiding a column can
// change the view when search or filters consulted it.
func (e *Engine) SetColumnVisible(key string, visible bool) error {
	if err := e.cols.SetVisible(key, visible); err != nil {
		return err
	}
	e.notify(false, false)
	return nil
}

// SetColumnWidth sets a column's width hint.
func (e *Engine) SetColumnWidth(key string, width int) error {
	if err := e.cols.SetWidth(key, width); err != nil {
		return err
	}
	e.notify(false, false)
	return nil
}
