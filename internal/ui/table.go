package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// NewTable creates a focused bubbles/table styled for theme.
func NewTable(columns []table.Column, theme tint.Tint) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles(theme))
	return t
}

func tableStyles(theme tint.Tint) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.BrightBlack()).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(theme.BrightWhite()).
		Background(Accent(theme)).
		Bold(false)
	return s
}

// ResizeTable restyles t for the current theme and fits it to width x height.
func ResizeTable(t *table.Model, width, height int) {
	t.SetStyles(tableStyles(GetLayout().Theme()))
	t.SetWidth(width)
	t.SetHeight(max(height-2, 1))
}

// FlexColumns gives the first column whatever width the fixed columns
// leave over.
func FlexColumns(cols []table.Column, width int) []table.Column {
	if len(cols) == 0 {
		return cols
	}
	used := 0
	for _, c := range cols[1:] {
		used += c.Width + 2
	}
	out := append([]table.Column(nil), cols...)
	out[0].Width = max(width-used-2, 10)
	return out
}
