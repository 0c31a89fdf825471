// Package ui renders grid views in the terminal: a static table for
// non-interactive output and an interactive browser built on
// bubbletea. The package is a renderer collaborating with the engine;
// all grid state lives behind the engine's entrypoints.
package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mattn/go-runewidth"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/ui/styles"
)

// RowCells formats one row into cells for the visible columns.
func RowCells(cols []columns.Column, row rowstore.Row) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = columns.FormatValue(row.Fields[c.Key])
	}
	return cells
}

// Headers returns the header labels of the visible columns.
func Headers(cols []columns.Column) []string {
	hs := make([]string, len(cols))
	for i, c := range cols {
		hs[i] = strings.ToUpper(c.Header)
	}
	return hs
}

// RenderTable creates a formatted, borderless table of the given rows
// with proper column alignment. Used by non-interactive output.
func RenderTable(cols []columns.Column, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(Headers(cols)...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingRight(2)
			if col < len(cols) {
				switch cols[col].Align {
				case columns.AlignRight:
					s = s.AlignHorizontal(lipgloss.Right)
				case columns.AlignCenter:
					s = s.AlignHorizontal(lipgloss.Center)
				}
				if w := cols[col].Width; w > 0 {
					s = s.Width(w)
				}
			}
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})

	return t.String() + "\n"
}

// TSV formats rows as tab-separated values, one line per row. Used by
// the clipboard yank.
func TSV(rows [][]string) string {
	var out strings.Builder
	for _, cells := range rows {
		out.WriteString(strings.Join(cells, "\t"))
		out.WriteString("\n")
	}
	return out.String()
}

// padCell pads or truncates s to the given display width, rune and
// wide-character aware. Truncating at a wide rune can come up a cell
// short, so the result is always padded back out to width.
func padCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		tail := "…"
		if width <= 1 {
			tail = ""
		}
		s = runewidth.Truncate(s, width, tail)
	}
	return runewidth.FillRight(s, width)
}

// groupHeaderLine renders a group bucket header.
func groupHeaderLine(key string, count int) string {
	label := key
	if label == "" {
		label = "(none)"
	}
	return styles.GroupHeader.Render(fmt.Sprintf("▸ %s (%d)", label, count))
}
