package view

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/presenters"
	"github.com/ygelfand/animctl/internal/tui/player"
	"github.com/ygelfand/animctl/internal/ui"
)

var markerColumns = []table.Column{
	{Title: "MARKER", Width: 20},
	{Title: "FROM", Width: 8},
	{Title: "TO", Width: 8},
}

// MarkersView lists the named segments of the loaded animation.
type MarkersView struct {
	pm    *player.PlayerManager
	table table.Model
	doc   *animation.Document
	names []string
	theme tint.Tint
	width int
}

func NewMarkersView(pm *player.PlayerManager, theme tint.Tint) *MarkersView {
	return &MarkersView{
		pm:    pm,
		table: ui.NewTable(markerColumns, theme),
		theme: theme,
	}
}

func (v *MarkersView) Init() tea.Cmd {
	v.sync()
	return nil
}

// sync reloads the rows when the loaded document changed.
func (v *MarkersView) sync() {
	doc := v.pm.Document()
	if doc == v.doc {
		return
	}
	v.doc = doc
	v.names = nil
	var rows []table.Row
	if doc != nil {
		v.names = doc.MarkerNames()
		for _, r := range (&presenters.MarkerPresenter{Doc: doc}).Rows() {
			rows = append(rows, table.Row(r))
		}
	}
	v.table.SetRows(rows)
	v.table.SetCursor(0)
}

func (v *MarkersView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg, ui.ThemeChangedMsg:
		if t, ok := msg.(ui.ThemeChangedMsg); ok {
			v.theme = t.Theme
		}
		layout := ui.GetLayout()
		v.width = layout.InnerWidth()
		v.table.SetColumns(ui.FlexColumns(markerColumns, v.width))
		ui.ResizeTable(&v.table, v.width, layout.ContentHeight()-1)
	case player.StatusChangedMsg:
		v.sync()
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "l":
			i := v.table.Cursor()
			if i < 0 || i >= len(v.names) {
				return v, nil
			}
			req := ui.RequestPlayMsg{Segment: v.names[i], Looped: msg.String() == "l"}
			return v, func() tea.Msg { return req }
		}
	}
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *MarkersView) View() string {
	if v.doc == nil {
		return ui.MutedStyle(v.theme).Render("Nothing loaded.")
	}
	title := ui.TitleStyle(v.theme).MarginBottom(0).Render("MARKERS  " + ui.MutedStyle(v.theme).Render(v.doc.Name))
	if len(v.names) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, ui.MutedStyle(v.theme).Render("This animation has no markers."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, v.table.View())
}

func (v *MarkersView) HelpKeys() []ui.HelpKey {
	return []ui.HelpKey{
		{Key: "enter", Desc: "Play Marker"},
		{Key: "l", Desc: "Loop Marker"},
	}
}
