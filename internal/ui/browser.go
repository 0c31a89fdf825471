package ui

import (
	"fmt"
	"os"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/engine"
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeEdit
)

// Browser is an interactive terminal front end for one grid engine.
// It owns only presentation state (cursor, scroll, input widgets);
// every data mutation goes through engine entrypoints.
type Browser struct {
	eng *engine.Engine

	width  int
	height int

	cursor    int // row index in the current view
	colCursor int // index into the visible columns
	scroll    int

	mode   mode
	search textinput.Model
	editor textinput.Model

	errMsg string
}

// NewBrowser creates a browser for the given engine.
func NewBrowser(eng *engine.Engine) *Browser {
	search := textinput.New()
	search.Placeholder = "search"
	search.SetWidth(32)

	editor := textinput.New()
	editor.SetWidth(32)

	return &Browser{
		eng:    eng,
		width:  80,
		height: 24,
		search: search,
		editor: editor,
	}
}

// Run starts the browser and blocks until the user quits. The TUI
// renders to stderr so stdout remains available for piping.
func (b *Browser) Run() error {
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	p := tea.NewProgram(b,
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
	_, err := p.Run()
	return err
}

// BubbleTea Model interface

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.clampCursor()
		return b, nil

	case tea.KeyPressMsg:
		switch b.mode {
		case modeSearch:
			return b.updateSearch(msg)
		case modeEdit:
			return b.updateEdit(msg)
		default:
			return b.updateBrowse(msg)
		}
	}
	return b, nil
}

func (b *Browser) updateBrowse(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	b.errMsg = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return b, tea.Quit

	case "up", "k":
		b.moveCursor(-1)
	case "down", "j":
		b.moveCursor(1)
	case "pgup":
		b.moveCursor(-b.viewRows())
	case "pgdown":
		b.moveCursor(b.viewRows())
	case "home":
		b.cursor = 0
		b.clampCursor()
	case "end":
		b.cursor = len(b.eng.ViewResult().IDs) - 1
		b.clampCursor()

	case "left", "h":
		if b.colCursor > 0 {
			b.colCursor--
		}
	case "right", "l":
		if b.colCursor < len(b.visibleCols())-1 {
			b.colCursor++
		}

	case "s":
		b.cycleSort(false)
	case "S":
		b.cycleSort(true)
	case "g":
		b.toggleGroup()

	case "space":
		if id, ok := b.cursorRowID(); ok {
			b.fail(b.eng.Select(id))
		}
	case "v":
		if id, ok := b.cursorRowID(); ok {
			b.fail(b.eng.SelectRange(id))
		}
	case "ctrl+a":
		b.eng.SelectAll()
	case "esc":
		b.eng.ClearSelection()

	case "enter":
		b.startEdit()

	case "y":
		b.yank()

	case "[":
		b.moveRow(-1)
	case "]":
		b.moveRow(1)
	case "<":
		b.moveColumn(-1)
	case ">":
		b.moveColumn(1)
	case "-":
		if cols := b.visibleCols(); len(cols) > 1 {
			b.fail(b.eng.SetColumnVisible(cols[b.colCursor].Key, false))
			b.clampColCursor()
		}

	case "n":
		b.turnPage(1)
	case "p":
		b.turnPage(-1)

	case "/":
		b.mode = modeSearch
		b.search.SetValue(b.eng.Query().Search)
		b.search.Focus()
		return b, textinput.Blink
	}
	return b, nil
}

func (b *Browser) updateSearch(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.mode = modeBrowse
		b.search.Blur()
		return b, nil
	case "esc":
		b.mode = modeBrowse
		b.search.SetValue("")
		b.search.Blur()
		b.eng.SetGlobalSearch("")
		b.clampCursor()
		return b, nil
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	b.eng.SetGlobalSearch(b.search.Value())
	b.clampCursor()
	return b, cmd
}

func (b *Browser) updateEdit(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.eng.UpdatePendingValue(b.editor.Value())
		b.fail(b.eng.CommitEdit())
		b.mode = modeBrowse
		b.editor.Blur()
		return b, nil
	case "esc":
		b.eng.CancelEdit()
		b.mode = modeBrowse
		b.editor.Blur()
		return b, nil
	}

	var cmd tea.Cmd
	b.editor, cmd = b.editor.Update(msg)
	b.eng.UpdatePendingValue(b.editor.Value())
	return b, cmd
}

// helpers

// fail records an entrypoint error for the status line.
func (b *Browser) fail(err error) {
	if err != nil {
		b.errMsg = err.Error()
	}
}

func (b *Browser) visibleCols() []columns.Column {
	return b.eng.Columns().Visible()
}

func (b *Browser) viewRows() int {
	// Chrome: title, header, status, help.
	rows := b.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (b *Browser) moveCursor(delta int) {
	b.cursor += delta
	b.clampCursor()
}

func (b *Browser) clampCursor() {
	n := len(b.eng.ViewResult().IDs)
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	// Keep the cursor inside the visible slice.
	rows := b.viewRows()
	if b.cursor < b.scroll {
		b.scroll = b.cursor
	}
	if b.cursor >= b.scroll+rows {
		b.scroll = b.cursor - rows + 1
	}
	b.scroll = b.eng.ClampScrollOffset(rows, b.scroll)
	b.clampColCursor()
}

func (b *Browser) clampColCursor() {
	n := len(b.eng.Columns().Visible())
	if b.colCursor >= n {
		b.colCursor = n - 1
	}
	if b.colCursor < 0 {
		b.colCursor = 0
	}
}

func (b *Browser) cursorRowID() (rowstore.ID, bool) {
	ids := b.eng.ViewResult().IDs
	if b.cursor < 0 || b.cursor >= len(ids) {
		return "", false
	}
	return ids[b.cursor], true
}

// cycleSort rotates the cursor column through asc, desc, off. With
// add set the key is appended as a secondary sort instead of
// replacing the whole sort.
func (b *Browser) cycleSort(add bool) {
	cols := b.visibleCols()
	if len(cols) == 0 {
		return
	}
	key := cols[b.colCursor].Key
	sort := b.eng.Sort()

	at := -1
	for i, k := range sort {
		if k.Column == key {
			at = i
			break
		}
	}
	switch {
	case at == -1:
		next := view.SortKey{Column: key}
		if add {
			sort = append(sort, next)
		} else {
			sort = []view.SortKey{next}
		}
	case !sort[at].Desc:
		sort[at].Desc = true
	default:
		sort = append(sort[:at], sort[at+1:]...)
	}
	b.eng.SetSort(sort)
	b.clampCursor()
}

func (b *Browser) toggleGroup() {
	cols := b.visibleCols()
	if len(cols) == 0 {
		return
	}
	key := cols[b.colCursor].Key
	if b.eng.Query().GroupBy == key {
		key = ""
	}
	b.eng.SetGroupBy(key)
	b.clampCursor()
}

func (b *Browser) startEdit() {
	id, ok := b.cursorRowID()
	if !ok {
		return
	}
	cols := b.visibleCols()
	if len(cols) == 0 {
		return
	}
	key := cols[b.colCursor].Key
	if err := b.eng.StartEdit(id, key); err != nil {
		b.fail(err)
		return
	}
	s, _ := b.eng.EditSession()
	b.editor.SetValue(fmt.Sprintf("%v", s.Original))
	b.editor.Focus()
	b.mode = modeEdit
}

func (b *Browser) yank() {
	ids := b.eng.Selection()
	if len(ids) == 0 {
		if id, ok := b.cursorRowID(); ok {
			ids = []rowstore.ID{id}
		}
	}
	if len(ids) == 0 {
		return
	}
	cols := b.eng.Columns().Visible()
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		row, err := b.eng.GetRow(id)
		if err != nil {
			continue
		}
		rows = append(rows, RowCells(cols, row))
	}
	if err := clipboard.WriteAll(TSV(rows)); err != nil {
		b.errMsg = "clipboard: " + err.Error()
		return
	}
	b.errMsg = fmt.Sprintf("yanked %d row(s)", len(rows))
}

func (b *Browser) moveRow(delta int) {
	id, ok := b.cursorRowID()
	if !ok {
		return
	}
	// The cursor moves with the row, so reordering feels like
	// dragging the row through the list. The move target is a base
	// order index, so translate via the row currently at the target
	// view position.
	target := b.cursor + delta
	ids := b.eng.ViewResult().IDs
	if target < 0 || target >= len(ids) {
		return
	}
	baseIndex := -1
	for i, bid := range b.eng.Rows().Order() {
		if bid == ids[target] {
			baseIndex = i
			break
		}
	}
	if baseIndex == -1 {
		return
	}
	if err := b.eng.MoveRow(id, baseIndex); err != nil {
		b.fail(err)
		return
	}
	b.cursor = target
	b.clampCursor()
}

func (b *Browser) moveColumn(delta int) {
	cols := b.visibleCols()
	if len(cols) == 0 {
		return
	}
	key := cols[b.colCursor].Key
	// Translate the visible position to the full display order.
	all := b.eng.Columns().Keys()
	at := -1
	for i, k := range all {
		if k == key {
			at = i
		}
	}
	if err := b.eng.MoveColumn(key, at+delta); err != nil {
		b.fail(err)
		return
	}
	b.colCursor += delta
	b.clampColCursor()
}

func (b *Browser) turnPage(delta int) {
	q := b.eng.Query()
	if q.Page == nil {
		return
	}
	p := *q.Page
	p.Index += delta
	if p.Index < 0 {
		p.Index = 0
	}
	b.eng.SetPage(&p)
	b.cursor = 0
	b.scroll = 0
	b.clampCursor()
}
