// Package engine wires the grid components into one instance: the row
// store and column registry feed the view pipeline, whose result feeds
// the windowing math, while selection and edit state live alongside,
// keyed by row identity.
//
// The engine is single-threaded and synchronous. Every mutation
// entrypoint runs to completion, re-derives the view if needed, and
// notifies subscribers before returning. It owns all of its state;
// collaborators read snapshots and derived results but mutate only
// through the documented entrypoints.
package engine

import (
	"errors"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/edit"
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/selection"
	"github.com/raphi011/grid/internal/view"
	"github.com/raphi011/grid/internal/window"
)

// ErrNotEditable indicates an edit on a column not marked editable.
var ErrNotEditable = errors.New("column not editable")

// ErrReorderBlockedBySort indicates a manual row reorder while a sort
// is active; a manual order and a sort comparator are contradictory.
var ErrReorderBlockedBySort = errors.New("row reorder blocked by active sort")

// Config tunes a new engine. The zero value is usable: single
// selection, substring search, uniform row extent of 1, no overscan.
type Config struct {
	// Columns registered at construction. More can be added later
	// through RegisterColumns.
	Columns []columns.Def

	// SelectionMode picks single or multi selection.
	SelectionMode selection.Mode

	// SearchMode picks substring or fuzzy global search.
	SearchMode view.SearchMode

	// RowExtent is the uniform row height/extent for windowing.
	RowExtent int

	// Overscan is the number of extra rows materialized on both ends
	// of the visible window.
	Overscan int
}

// Change describes what a mutation touched. Subscribers compare the
// version counters against what they last rendered to decide whether
// to redraw.
type Change struct {
	View      bool
	Selection bool
	Edit      bool

	ViewVersion      uint64
	SelectionVersion uint64
	EditVersion      uint64
}

// Engine is one grid instance. Not safe for concurrent use.
type Engine struct {
	store *rowstore.Store
	cols  *columns.Registry
	sel   *selection.Set
	edits *edit.Machine
	win   *window.Windower

	query view.Query

	result     view.Result
	lastRowsV  uint64
	lastColsV  uint64
	queryDirty bool
	derived    bool

	viewVersion uint64
	selVersion  uint64
	editVersion uint64

	totalCount int // data-source hint; -1 = unknown

	overscan  int
	rowExtent int

	subs    map[int]func(Change)
	nextSub int
}

// New creates an engine from cfg.
func New(cfg Config) (*Engine, error) {
	extent := cfg.RowExtent
	if extent < 1 {
		extent = 1
	}
	e := &Engine{
		store:      rowstore.New(),
		cols:       columns.NewRegistry(),
		sel:        selection.New(cfg.SelectionMode),
		edits:      edit.New(),
		win:        window.NewUniform(extent, cfg.Overscan),
		query:      view.Query{SearchMode: cfg.SearchMode, Filters: make(map[string]string)},
		totalCount: -1,
		overscan:   cfg.Overscan,
		rowExtent:  extent,
		subs:       make(map[int]func(Change)),
	}
	if len(cfg.Columns) > 0 {
		if err := e.cols.Register(cfg.Columns); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Subscribe registers fn to run after every mutation that changed the
// view result, the selection, or the edit session. The returned
// function unsubscribes.
func (e *Engine) Subscribe(fn func(Change)) func() {
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

// ViewResult returns the current derived view.
func (e *Engine) ViewResult() view.Result {
	e.refresh()
	return e.result
}

// Query returns a copy of the current query state.
func (e *Engine) Query() view.Query {
	q := e.query
	q.Filters = make(map[string]string, len(e.query.Filters))
	for k, v := range e.query.Filters {
		q.Filters[k] = v
	}
	if e.query.Page != nil {
		p := *e.query.Page
		q.Page = &p
	}
	return q
}

// Columns returns the current column snapshot.
func (e *Engine) Columns() columns.Snapshot {
	return e.cols.Snapshot()
}

// Rows returns the current row snapshot.
func (e *Engine) Rows() rowstore.Snapshot {
	return e.store.Snapshot()
}

// Selection returns the selected identities, ordered by the current
// view; selected rows filtered out of the view follow in base order.
func (e *Engine) Selection() []rowstore.ID {
	e.refresh()
	return e.sel.IDs(e.result.IDs, e.store.Snapshot().Order())
}

// EditSession returns the live edit session, if any.
func (e *Engine) EditSession() (edit.Session, bool) {
	return e.edits.Active()
}

// TotalCount returns the data source's row-count hint when one was
// supplied, otherwise the local store size. Server-driven pagination
// uses this to size page controls beyond the locally loaded rows.
func (e *Engine) TotalCount() int {
	if e.totalCount >= 0 {
		return e.totalCount
	}
	return e.store.Len()
}

// SetTotalCount records the data source's count hint. Negative values
// clear it.
func (e *Engine) SetTotalCount(n int) {
	if n < 0 {
		n = -1
	}
	e.totalCount = n
}

// Versions returns the current (view, selection, edit) version
// counters without forcing a re-derive.
func (e *Engine) Versions() (uint64, uint64, uint64) {
	return e.viewVersion, e.selVersion, e.editVersion
}

// refresh re-derives the view if the row store, the column registry,
// or the query changed since the last pass. Reports whether the
// derived result actually differs.
func (e *Engine) refresh() bool {
	rows := e.store.Snapshot()
	cols := e.cols.Snapshot()
	if e.derived && !e.queryDirty &&
		rows.Version() == e.lastRowsV && cols.Version() == e.lastColsV {
		return false
	}
	res := view.Derive(rows, cols, e.query)
	e.lastRowsV = rows.Version()
	e.lastColsV = cols.Version()
	e.queryDirty = false
	e.derived = true

	if resultEqual(e.result, res) {
		e.result = res
		return false
	}
	e.result = res
	e.viewVersion++
	return true
}

// notify runs refresh and fans the change out to subscribers. The
// selection and edit flags are supplied by the calling entrypoint.
func (e *Engine) notify(selChanged, editChanged bool) {
	viewChanged := e.refresh()
	if selChanged {
		e.selVersion++
	}
	if editChanged {
		e.editVersion++
	}
	if !viewChanged && !selChanged && !editChanged {
		return
	}
	c := Change{
		View:             viewChanged,
		Selection:        selChanged,
		Edit:             editChanged,
		ViewVersion:      e.viewVersion,
		SelectionVersion: e.selVersion,
		EditVersion:      e.editVersion,
	}
	for _, fn := range e.subs {
		fn(c)
	}
}

func resultEqual(a, b view.Result) bool {
	if a.Total != b.Total || len(a.IDs) != len(b.IDs) || len(a.Groups) != len(b.Groups) {
		return false
	}
	for i := range a.IDs {
		if a.IDs[i] != b.IDs[i] {
			return false
		}
	}
	for i := range a.Groups {
		if a.Groups[i].Key != b.Groups[i].Key || len(a.Groups[i].IDs) != len(b.Groups[i].IDs) {
			return false
		}
		for j := range a.Groups[i].IDs {
			if a.Groups[i].IDs[j] != b.Groups[i].IDs[j] {
				return false
			}
		}
	}
	return true
}
