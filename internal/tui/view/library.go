package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/presenters"
	"github.com/ygelfand/animctl/internal/ui"
)

// ReindexedMsg is sent after the library was reindexed from the TUI.
type ReindexedMsg struct{}

type (
	reindexProgressMsg library.Progress
	reindexFinishedMsg struct{ err error }
)

var libraryColumns = []table.Column{
	{Title: "NAME", Width: 20},
	{Title: "DURATION", Width: 9},
	{Title: "SIZE", Width: 9},
	{Title: "LAYERS", Width: 7},
	{Title: "MARKERS", Width: 14},
	{Title: "STATUS", Width: 8},
}

// LibraryView lists the library and reindexes it on demand.
type LibraryView struct {
	index   *library.Index
	table   table.Model
	entries []library.Entry
	theme   tint.Tint
	width   int
	height  int

	isIndexing   bool
	progress     library.Progress
	progressChan chan library.Progress
	err          error
	spinner      spinner.Model
}

func NewLibraryView(index *library.Index, theme tint.Tint) *LibraryView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.Accent(theme))

	v := &LibraryView{
		index:   index,
		table:   ui.NewTable(libraryColumns, theme),
		theme:   theme,
		spinner: s,
	}
	v.loadRows()
	return v
}

func (v *LibraryView) Init() tea.Cmd {
	if v.index.Indexed().IsZero() && !v.isIndexing {
		return v.Refresh()
	}
	return nil
}

// Refresh reindexes the library.
func (v *LibraryView) Refresh() tea.Cmd {
	v.isIndexing = true
	v.err = nil
	v.progress = library.Progress{}
	v.progressChan = make(chan library.Progress, 100)
	return tea.Batch(v.spinner.Tick, v.runReindex(v.progressChan), v.waitForProgress(v.progressChan))
}

func (v *LibraryView) runReindex(ch chan library.Progress) tea.Cmd {
	return func() tea.Msg {
		err := v.index.Reindex(context.Background(), ch)
		close(ch)
		return reindexFinishedMsg{err: err}
	}
}

func (v *LibraryView) waitForProgress(ch chan library.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil // runReindex reports the result
		}
		return reindexProgressMsg(p)
	}
}

func (v *LibraryView) loadRows() {
	p := &presenters.LibraryListPresenter{Root: v.index.Root, Entries: v.index.List()}
	p.SortBy(p.DefaultSort())
	v.entries = p.Entries
	rows := make([]table.Row, 0, len(v.entries))
	for _, r := range p.Rows() {
		rows = append(rows, table.Row(r))
	}
	v.table.SetRows(rows)
}

func (v *LibraryView) resize() {
	layout := ui.GetLayout()
	v.width = layout.InnerWidth()
	v.height = layout.ContentHeight()
	v.table.SetColumns(ui.FlexColumns(libraryColumns, v.width))
	// title + status line
	ui.ResizeTable(&v.table, v.width, v.height-2)
}

func (v *LibraryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize()
	case ui.ThemeChangedMsg:
		v.theme = msg.Theme
		v.spinner.Style = lipgloss.NewStyle().Foreground(ui.Accent(v.theme))
		v.resize()
	case reindexProgressMsg:
		v.progress = library.Progress(msg)
		return v, v.waitForProgress(v.progressChan)
	case reindexFinishedMsg:
		v.isIndexing = false
		v.err = msg.err
		v.progressChan = nil
		v.loadRows()
		return v, func() tea.Msg { return ReindexedMsg{} }
	case spinner.TickMsg:
		if v.isIndexing {
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if v.isIndexing {
				return v, nil
			}
			return v, v.Refresh()
		case "enter":
			i := v.table.Cursor()
			if i < 0 || i >= len(v.entries) || v.entries[i].Broken() {
				return v, nil
			}
			e := v.entries[i]
			return v, func() tea.Msg { return ui.SelectAnimationMsg{Name: e.Name, Path: e.Path, Play: true} }
		}
	}
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *LibraryView) View() string {
	title := ui.TitleStyle(v.theme).MarginBottom(0).Render(fmt.Sprintf("LIBRARY  %s", ui.MutedStyle(v.theme).Render(v.index.Root)))

	var status string
	switch {
	case v.isIndexing:
		status = lipgloss.JoinHorizontal(lipgloss.Left,
			v.spinner.View(),
			" ",
			ui.AccentStyle(v.theme).Render("Indexing... "),
			lipgloss.NewStyle().Foreground(v.theme.White()).Render(fmt.Sprintf("[%d/%d] %s", v.progress.Current, v.progress.Total, v.progress.Message)),
		)
	case v.err != nil:
		status = ui.ErrorStyle(v.theme).Render(fmt.Sprintf("Error: %v", v.err))
	default:
		last := "never"
		if t := v.index.Indexed(); !t.IsZero() {
			last = t.Format("2006-01-02 15:04:05")
		}
		status = ui.MutedStyle(v.theme).Render(fmt.Sprintf("%d animations, indexed %s. Press 'r' to reindex.", len(v.entries), last))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, v.table.View(), status)
}

func (v *LibraryView) HelpKeys() []ui.HelpKey {
	return []ui.HelpKey{
		{Key: "enter", Desc: "Load and Play"},
		{Key: "r", Desc: "Reindex Library"},
	}
}
