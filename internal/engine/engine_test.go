package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/selection"
	"github.com/raphi011/grid/internal/view"
)

func testEngine(t *testing.T, mode selection.Mode) *Engine {
	t.Helper()
	e, err := New(Config{
		Columns: []columns.Def{
			{Key: "name", Type: columns.TypeText, Sortable: true, Filterable: true, Editable: true},
			{Key: "status", Type: columns.TypeText, Sortable: true, Filterable: true},
			{Key: "v", Type: columns.TypeNumber, Sortable: true},
		},
		SelectionMode: mode,
		Overscan:      5,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = e.UpsertRows([]rowstore.Row{
		{ID: "1", Fields: map[string]any{"name": "ada", "status": "active", "v": 5}},
		{ID: "2", Fields: map[string]any{"name": "grace", "status": "active", "v": 5}},
		{ID: "3", Fields: map[string]any{"name": "alan", "status": "retired", "v": 1}},
		{ID: "7", Fields: map[string]any{"name": "barbara", "status": "active", "v": 2}},
	})
	if err != nil {
		t.Fatalf("UpsertRows() error: %v", err)
	}
	return e
}

func viewIDs(e *Engine) []rowstore.ID {
	return e.ViewResult().IDs
}

func TestSelectionSurvivesRefilter(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeMulti)
	if err := e.Select("7"); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	// A filter that still includes row 7.
	e.SetColumnFilter("status", "active")
	if !e.Selected("7") {
		t.Error("selection lost after matching filter")
	}

	// A filter that excludes row 7: still selected, just not visible.
	e.SetColumnFilter("name", "ada")
	for _, id := range viewIDs(e) {
		if id == "7" {
			t.Error("row 7 should be filtered out of the view")
		}
	}
	if !e.Selected("7") {
		t.Error("selection must be decoupled from the view result")
	}

	// Removal prunes.
	e.RemoveRows([]rowstore.ID{"7"})
	if e.Selected("7") {
		t.Error("selection kept a removed row")
	}
}

func TestSelectUnknownRow(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeMulti)
	if err := e.Select("nope"); !errors.Is(err, rowstore.ErrNotFound) {
		t.Errorf("Select(nope) error = %v, want ErrNotFound", err)
	}
}

func TestSelectRangeUsesViewOrder(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeMulti)
	// Sort by v ascending: view order is 3, 7, 1, 2.
	e.SetSort([]view.SortKey{{Column: "v"}})

	if err := e.Select("7"); err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if err := e.SelectRange("2"); err != nil {
		t.Fatalf("SelectRange() error: %v", err)
	}

	got := e.Selection()
	want := []rowstore.ID{"7", "1", "2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Selection() (-want +got):\n%s", diff)
	}
}

func TestSelectAllCoversFilteredViewOnly(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeMulti)
	e.SetColumnFilter("status", "retired")
	e.SelectAll()

	got := e.Selection()
	want := []rowstore.ID{"3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SelectAll() under filter (-want +got):\n%s", diff)
	}
}

func TestEditSwitchCommits(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	if err := e.StartEdit("1", "name"); err != nil {
		t.Fatalf("StartEdit() error: %v", err)
	}
	e.UpdatePendingValue("X")

	// Starting a second edit without committing writes the first.
	if err := e.StartEdit("2", "name"); err != nil {
		t.Fatalf("StartEdit() error: %v", err)
	}
	row, err := e.GetRow("1")
	if err != nil {
		t.Fatalf("GetRow() error: %v", err)
	}
	if row.Fields["name"] != "X" {
		t.Errorf("row 1 name = %v, want X (switch commits)", row.Fields["name"])
	}

	s, ok := e.EditSession()
	if !ok || s.RowID != "2" {
		t.Errorf("edit session = %+v (%v), want row 2", s, ok)
	}
}

func TestEditCommitAndCancel(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	if err := e.StartEdit("1", "name"); err != nil {
		t.Fatalf("StartEdit() error: %v", err)
	}
	e.UpdatePendingValue("ada l.")
	if err := e.CommitEdit(); err != nil {
		t.Fatalf("CommitEdit() error: %v", err)
	}
	row, _ := e.GetRow("1")
	if row.Fields["name"] != "ada l." {
		t.Errorf("name = %v after commit, want ada l.", row.Fields["name"])
	}
	if _, ok := e.EditSession(); ok {
		t.Error("session still live after commit")
	}

	// Cancel leaves the store untouched.
	if err := e.StartEdit("2", "name"); err != nil {
		t.Fatalf("StartEdit() error: %v", err)
	}
	e.UpdatePendingValue("typo")
	e.CancelEdit()
	row, _ = e.GetRow("2")
	if row.Fields["name"] != "grace" {
		t.Errorf("name = %v after cancel, want grace", row.Fields["name"])
	}
}

func TestEditCommitWritesThroughUpsert(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	before := e.Rows().Order()

	if err := e.StartEdit("1", "name"); err != nil {
		t.Fatalf("StartEdit() error: %v", err)
	}
	e.UpdatePendingValue("ada l.")
	if err := e.CommitEdit(); err != nil {
		t.Fatalf("CommitEdit() error: %v", err)
	}

	// An update write, so the row keeps its base-order position and
	// the untouched fields survive.
	after := e.Rows().Order()
	if len(after) != len(before) {
		t.Fatalf("order length changed: %v -> %v", before, after)
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("base order changed: %v -> %v", before, after)
		}
	}
	row, _ := e.GetRow("1")
	if row.Fields["status"] != "active" {
		t.Errorf("status = %v, want active (untouched by cell commit)", row.Fields["status"])
	}
}

func TestStartEditValidation(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)

	if err := e.StartEdit("1", "status"); !errors.Is(err, ErrNotEditable) {
		t.Errorf("StartEdit(status) error = %v, want ErrNotEditable", err)
	}
	if err := e.StartEdit("1", "nope"); !errors.Is(err, columns.ErrNotFound) {
		t.Errorf("StartEdit(nope) error = %v, want columns.ErrNotFound", err)
	}
	if err := e.StartEdit("99", "name"); !errors.Is(err, rowstore.ErrNotFound) {
		t.Errorf("StartEdit(99) error = %v, want rowstore.ErrNotFound", err)
	}
	if _, ok := e.EditSession(); ok {
		t.Error("failed starts must leave the machine idle")
	}
}

func TestEditDroppedOnRowRemoval(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	if err := e.StartEdit("1", "name"); err != nil {
		t.Fatalf("StartEdit() error: %v", err)
	}
	e.UpdatePendingValue("X")
	e.RemoveRows([]rowstore.ID{"1"})

	if _, ok := e.EditSession(); ok {
		t.Error("edit session survived row removal")
	}
}

func TestMoveRowBlockedBySort(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	e.SetSort([]view.SortKey{{Column: "v"}})
	before := append([]rowstore.ID(nil), e.Rows().Order()...)

	if err := e.MoveRow("1", 3); !errors.Is(err, ErrReorderBlockedBySort) {
		t.Fatalf("MoveRow() error = %v, want ErrReorderBlockedBySort", err)
	}
	if diff := cmp.Diff(before, e.Rows().Order()); diff != "" {
		t.Errorf("base order changed despite rejection (-want +got):\n%s", diff)
	}

	// Clearing the sort unblocks the reorder.
	e.SetSort(nil)
	if err := e.MoveRow("1", 3); err != nil {
		t.Fatalf("MoveRow() error: %v", err)
	}
	want := []rowstore.ID{"2", "3", "7", "1"}
	if diff := cmp.Diff(want, viewIDs(e)); diff != "" {
		t.Errorf("view after MoveRow (-want +got):\n%s", diff)
	}
}

func TestMoveColumn(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	if err := e.MoveColumn("v", 0); err != nil {
		t.Fatalf("MoveColumn() error: %v", err)
	}
	got := e.Columns().Keys()
	want := []string{"v", "name", "status"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("column order (-want +got):\n%s", diff)
	}
}

func TestSetSortDropsUnsortableKeys(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	if err := e.RegisterColumns([]columns.Def{
		{Key: "badge", Type: columns.TypeCustom, Sortable: true}, // no comparator
	}); err != nil {
		t.Fatalf("RegisterColumns() error: %v", err)
	}

	e.SetSort([]view.SortKey{{Column: "badge"}, {Column: "v", Desc: true}})
	got := e.Sort()
	want := []view.SortKey{{Column: "v", Desc: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort() (-want +got):\n%s", diff)
	}
}

func TestSubscription(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeMulti)
	var changes []Change
	unsub := e.Subscribe(func(c Change) { changes = append(changes, c) })

	e.SetGlobalSearch("ada")
	if len(changes) != 1 || !changes[0].View || changes[0].Selection {
		t.Fatalf("after search: changes = %+v, want one view-only change", changes)
	}
	viewV := changes[0].ViewVersion

	if err := e.Select("1"); err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	last := changes[len(changes)-1]
	if !last.Selection || last.View {
		t.Errorf("after select: change = %+v, want selection-only", last)
	}
	if last.ViewVersion != viewV {
		t.Errorf("view version moved on a selection change: %d -> %d", viewV, last.ViewVersion)
	}

	// A mutation that cannot change anything fires no notification.
	n := len(changes)
	e.SetGlobalSearch("ada")
	if len(changes) != n {
		t.Errorf("redundant search setter notified %d extra times", len(changes)-n)
	}

	unsub()
	e.SetGlobalSearch("grace")
	if len(changes) != n {
		t.Error("subscriber ran after unsubscribe")
	}
}

func TestNoNotifyWhenViewUnchanged(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	var fired int
	e.Subscribe(func(Change) { fired++ })

	// Filtering on a value every row shares leaves the view identical.
	e.SetColumnFilter("status", "")
	if fired != 0 {
		t.Errorf("clearing an absent filter notified %d times", fired)
	}

	// Hiding a column no search/filter/sort consults keeps the same
	// identity sequence, so no view change is reported.
	if err := e.SetColumnVisible("v", false); err != nil {
		t.Fatalf("SetColumnVisible() error: %v", err)
	}
	if fired != 0 {
		t.Errorf("no-op visibility change notified %d times", fired)
	}
}

func TestWindowThroughEngine(t *testing.T) {
	t.Parallel()

	e, err := New(Config{
		Columns:  []columns.Def{{Key: "n", Type: columns.TypeNumber}},
		Overscan: 5,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	rows := make([]rowstore.Row, 100)
	for i := range rows {
		rows[i] = rowstore.Row{ID: rowstore.ID(rune('a'+i/26)) + rowstore.ID(rune('a'+i%26)), Fields: map[string]any{"n": i}}
	}
	if _, err := e.UpsertRows(rows); err != nil {
		t.Fatalf("UpsertRows() error: %v", err)
	}

	r := e.Window(10, 95)
	if r.Last != 99 {
		t.Errorf("Window().Last = %d, want clamped 99", r.Last)
	}
	ids := e.WindowIDs(10, 95)
	if len(ids) != r.Count() {
		t.Errorf("WindowIDs() returned %d ids for a %d-row window", len(ids), r.Count())
	}

	// Scrolling must not re-derive: the view version stays put.
	v0, _, _ := e.Versions()
	e.Window(10, 0)
	e.Window(10, 50)
	v1, _, _ := e.Versions()
	if v0 != v1 {
		t.Errorf("view version moved on scroll: %d -> %d", v0, v1)
	}
}

func TestTotalCountHint(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	if got := e.TotalCount(); got != 4 {
		t.Errorf("TotalCount() = %d, want local size 4", got)
	}
	e.SetTotalCount(5000)
	if got := e.TotalCount(); got != 5000 {
		t.Errorf("TotalCount() = %d, want hint 5000", got)
	}
	e.SetTotalCount(-1)
	if got := e.TotalCount(); got != 4 {
		t.Errorf("TotalCount() = %d after clearing hint, want 4", got)
	}
}

func TestAtomicUpsertDoesNotNotify(t *testing.T) {
	t.Parallel()

	e := testEngine(t, selection.ModeSingle)
	var fired int
	e.Subscribe(func(Change) { fired++ })

	_, err := e.UpsertRows([]rowstore.Row{
		{ID: "5", Fields: nil},
		{ID: "", Fields: nil},
	})
	if err == nil {
		t.Fatal("UpsertRows() = nil error, want error")
	}
	if fired != 0 {
		t.Errorf("failed batch notified %d times", fired)
	}
	if _, err := e.GetRow("5"); !errors.Is(err, rowstore.ErrNotFound) {
		t.Error("failed batch partially applied")
	}
}
