package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/presenters"
	"github.com/ygelfand/animctl/internal/ui"
)

type documentLoadedMsg struct {
	path string
	doc  *animation.Document
	err  error
}

var layerColumns = []table.Column{
	{Title: "LAYER", Width: 16},
	{Title: "SHAPE", Width: 8},
	{Title: "COLOR", Width: 9},
	{Title: "ANIMATED", Width: 30},
}

// EntryView describes one library entry and loads it on enter.
type EntryView struct {
	entry library.Entry
	fs    afero.Fs
	doc   *animation.Document
	err   error
	table table.Model
	theme tint.Tint
	width int
}

func NewEntryView(entry library.Entry, fs afero.Fs, theme tint.Tint) *EntryView {
	return &EntryView{
		entry: entry,
		fs:    fs,
		table: ui.NewTable(layerColumns, theme),
		theme: theme,
	}
}

func (v *EntryView) Entry() library.Entry { return v.entry }

func (v *EntryView) Init() tea.Cmd {
	if v.doc != nil || v.entry.Broken() {
		return nil
	}
	return v.Refresh()
}

// Refresh rereads the document from disk.
func (v *EntryView) Refresh() tea.Cmd {
	fs, path := v.fs, v.entry.Path
	return func() tea.Msg {
		doc, err := animation.Load(fs, path)
		return documentLoadedMsg{path: path, doc: doc, err: err}
	}
}

func (v *EntryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg, ui.ThemeChangedMsg:
		if t, ok := msg.(ui.ThemeChangedMsg); ok {
			v.theme = t.Theme
		}
		layout := ui.GetLayout()
		v.width = layout.InnerWidth()
		v.table.SetColumns(ui.FlexColumns(layerColumns, v.width))
		// title, summary and description
		ui.ResizeTable(&v.table, v.width, layout.ContentHeight()-5)
	case documentLoadedMsg:
		if msg.path != v.entry.Path {
			return v, nil
		}
		v.doc, v.err = msg.doc, msg.err
		var rows []table.Row
		if v.doc != nil {
			for _, r := range presenters.NewDocumentPresenter(v.doc).Rows() {
				rows = append(rows, table.Row(r))
			}
		}
		v.table.SetRows(rows)
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if v.entry.Broken() {
				return v, nil
			}
			e := v.entry
			return v, func() tea.Msg { return ui.SelectAnimationMsg{Name: e.Name, Path: e.Path, Play: true} }
		case "r":
			return v, v.Refresh()
		}
	}
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *EntryView) View() string {
	title := ui.TitleStyle(v.theme).MarginBottom(0).Render(v.entry.Name)
	muted := ui.MutedStyle(v.theme)

	if v.entry.Broken() {
		return lipgloss.JoinVertical(lipgloss.Left, title, ui.ErrorStyle(v.theme).Render(v.entry.Error))
	}
	if v.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, ui.ErrorStyle(v.theme).Render(v.err.Error()))
	}
	if v.doc == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, muted.Render("Loading..."))
	}

	summary := fmt.Sprintf("%s  %gx%g  %d layers", ui.FormatDuration(v.doc.Duration), v.doc.Canvas.Width, v.doc.Canvas.Height, len(v.doc.Layers))
	if names := v.doc.MarkerNames(); len(names) > 0 {
		summary += "  markers: " + strings.Join(names, ", ")
	}
	lines := []string{title, ui.ValueStyle(v.theme).Render(ui.Ellipsis(summary, v.width))}
	if v.doc.Description != "" {
		lines = append(lines, muted.Render(ui.Ellipsis(v.doc.Description, v.width)))
	}
	lines = append(lines, "", v.table.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *EntryView) HelpKeys() []ui.HelpKey {
	return []ui.HelpKey{
		{Key: "enter", Desc: "Load and Play"},
		{Key: "r", Desc: "Reload Details"},
	}
}
