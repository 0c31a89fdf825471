// Package styles provides shared lipgloss styles for the grid UI.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	// Primary is the main accent color (borders, headers)
	Primary color.Color = lipgloss.Color("62")

	// Accent highlights the cursor row and active sort column (pink)
	Accent color.Color = lipgloss.Color("212")

	// Selected marks selected rows (green)
	Selected color.Color = lipgloss.Color("82")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for group headers and inactive text (gray)
	Muted color.Color = lipgloss.Color("240")

	// Normal is the standard text color (light gray)
	Normal color.Color = lipgloss.Color("252")
)

// Common styles
var (
	// Header styles the column header row
	Header = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	// CursorRow styles the row under the cursor
	CursorRow = lipgloss.NewStyle().Bold(true).Foreground(Accent)

	// SelectedRow styles selected rows
	SelectedRow = lipgloss.NewStyle().Foreground(Selected)

	// GroupHeader styles group bucket headers
	GroupHeader = lipgloss.NewStyle().Bold(true).Foreground(Muted)

	// StatusBar styles the bottom status line
	StatusBar = lipgloss.NewStyle().Foreground(Muted)

	// ErrorText styles inline error messages
	ErrorText = lipgloss.NewStyle().Foreground(Error)

	// NormalText is the standard cell style
	NormalText = lipgloss.NewStyle().Foreground(Normal)
)
