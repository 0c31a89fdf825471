package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/ui/styles"
	"github.com/raphi011/grid/internal/view"
)

const maxAutoWidth = 32

func (b *Browser) View() tea.View {
	cols := b.visibleCols()
	result := b.eng.ViewResult()

	var out strings.Builder
	out.WriteString(b.titleLine())
	out.WriteString("\n")

	widths := b.columnWidths(cols, result)
	out.WriteString(b.headerLine(cols, widths))
	out.WriteString("\n")

	starts := groupStarts(result)
	lines := 0
	for i := b.scroll; i < len(result.IDs) && lines < b.viewRows(); i++ {
		if g, ok := starts[i]; ok {
			out.WriteString(groupHeaderLine(g.Key, len(g.IDs)))
			out.WriteString("\n")
			lines++
			if lines >= b.viewRows() {
				break
			}
		}
		out.WriteString(b.rowLine(cols, widths, result.IDs[i], i))
		out.WriteString("\n")
		lines++
	}
	for ; lines < b.viewRows(); lines++ {
		out.WriteString("\n")
	}

	out.WriteString(b.statusLine(result))
	return tea.NewView(out.String())
}

func (b *Browser) titleLine() string {
	if b.mode == modeSearch {
		return "/ " + b.search.View()
	}
	title := styles.Header.Render("grid")
	if q := b.eng.Query().Search; q != "" {
		title += styles.StatusBar.Render("  /" + q)
	}
	return title
}

// columnWidths resolves one render width per visible column: the
// configured width when set, otherwise sized to the header and the
// rows in the current window.
func (b *Browser) columnWidths(cols []columns.Column, result view.Result) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			continue
		}
		w := runewidth.StringWidth(c.Header)
		r := b.eng.Window(b.viewRows(), b.scroll)
		for v := r.First; v <= r.Last && v < len(result.IDs); v++ {
			row, err := b.eng.GetRow(result.IDs[v])
			if err != nil {
				continue
			}
			if l := runewidth.StringWidth(columns.FormatValue(row.Fields[c.Key])); l > w {
				w = l
			}
		}
		if w > maxAutoWidth {
			w = maxAutoWidth
		}
		widths[i] = w
	}
	return widths
}

func (b *Browser) headerLine(cols []columns.Column, widths []int) string {
	sort := b.eng.Sort()
	cells := make([]string, len(cols))
	for i, c := range cols {
		h := strings.ToUpper(c.Header)
		for _, k := range sort {
			if k.Column == c.Key {
				if k.Desc {
					h += "↓"
				} else {
					h += "↑"
				}
			}
		}
		cell := padCell(h, widths[i])
		if i == b.colCursor {
			cell = styles.CursorRow.Render(cell)
		} else {
			cell = styles.Header.Render(cell)
		}
		cells[i] = cell
	}
	return "  " + strings.Join(cells, "  ")
}

func (b *Browser) rowLine(cols []columns.Column, widths []int, id rowstore.ID, index int) string {
	row, err := b.eng.GetRow(id)
	if err != nil {
		return ""
	}

	session, editing := b.eng.EditSession()
	cells := make([]string, len(cols))
	for i, c := range cols {
		text := columns.FormatValue(row.Fields[c.Key])
		if editing && session.RowID == id && session.Column == c.Key {
			text = b.editor.Value() + "▌"
		}
		cells[i] = padCell(text, widths[i])
	}
	line := strings.Join(cells, "  ")

	switch {
	case index == b.cursor:
		return styles.CursorRow.Render("› " + line)
	case b.eng.Selected(id):
		return styles.SelectedRow.Render("• " + line)
	default:
		return "  " + styles.NormalText.Render(line)
	}
}

func (b *Browser) statusLine(result view.Result) string {
	parts := []string{countSummary(result.Total, b.eng.TotalCount())}

	if n := len(b.eng.Selection()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if sort := b.eng.Sort(); len(sort) > 0 {
		keys := make([]string, len(sort))
		for i, k := range sort {
			keys[i] = k.Column
			if k.Desc {
				keys[i] += "↓"
			} else {
				keys[i] += "↑"
			}
		}
		parts = append(parts, "sort "+strings.Join(keys, ","))
	}
	if g := b.eng.Query().GroupBy; g != "" {
		parts = append(parts, "group "+g)
	}
	if p := b.eng.Query().Page; p != nil && p.Size > 0 {
		parts = append(parts, fmt.Sprintf("page %d", p.Index+1))
	}

	status := styles.StatusBar.Render(strings.Join(parts, " · "))
	if b.errMsg != "" {
		status += "  " + styles.ErrorText.Render(b.errMsg)
	}

	help := styles.StatusBar.Render(
		"j/k move · space select · v range · / search · s sort · g group · enter edit · y yank · q quit")
	return status + "\n" + help
}

// countSummary formats the local row count, appending the upstream
// total when a larger hint is known.
func countSummary(local, total int) string {
	if total > local {
		return fmt.Sprintf("%d/%d rows", local, total)
	}
	return fmt.Sprintf("%d rows", local)
}

// groupStarts maps the view index at which each group bucket begins.
func groupStarts(result view.Result) map[int]view.Group {
	if len(result.Groups) == 0 {
		return nil
	}
	starts := make(map[int]view.Group, len(result.Groups))
	at := 0
	for _, g := range result.Groups {
		starts[at] = g
		at += len(g.IDs)
	}
	return starts
}
