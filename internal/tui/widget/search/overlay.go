package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/ui"
)

// MaxResults caps the result list.
const MaxResults = 20

type resultItem struct {
	entry library.Entry
}

func (i resultItem) Title() string { return i.entry.Name }

func (i resultItem) Description() string {
	if i.entry.Broken() {
		return "broken: " + i.entry.Error
	}
	desc := fmt.Sprintf("%s  %gx%g", ui.FormatDuration(i.entry.Duration), i.entry.Width, i.entry.Height)
	if len(i.entry.Markers) > 0 {
		desc += "  [" + strings.Join(i.entry.Markers, ", ") + "]"
	}
	return desc
}

func (i resultItem) FilterValue() string { return i.entry.Name }

type SearchOverlayModel struct {
	textInput textinput.Model
	list      list.Model
	width     int
	height    int
	theme     tint.Tint
	index     *library.Index
}

func NewSearchOverlayModel(index *library.Index, theme tint.Tint) *SearchOverlayModel {
	ti := textinput.New()
	ti.Placeholder = "Search animations..."
	ti.Focus()
	ti.Prompt = " "

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("esc")

	return &SearchOverlayModel{
		textInput: ti,
		list:      l,
		theme:     theme,
		index:     index,
	}
}

func (m *SearchOverlayModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *SearchOverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(m.width/2, 60), max(m.height/2, 20))
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return nil, nil
		case "enter":
			item, ok := m.list.SelectedItem().(resultItem)
			if !ok || item.entry.Broken() {
				return m, nil
			}
			return nil, func() tea.Msg {
				return ui.SelectAnimationMsg{Name: item.entry.Name, Path: item.entry.Path}
			}
		}
	}

	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	if q := m.textInput.Value(); q != "" {
		m.runSearch(q)
	} else {
		m.list.SetItems(nil)
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	return m, tea.Batch(cmds...)
}

func (m *SearchOverlayModel) runSearch(query string) {
	var items []list.Item
	for _, e := range m.index.Search(query, MaxResults) {
		items = append(items, resultItem{entry: e})
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

func (m *SearchOverlayModel) View() string {
	accent := ui.Accent(m.theme)
	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Background(lipgloss.Color("#111111"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.textInput.View(),
		"",
		m.list.View(),
	)

	return overlayStyle.Render(content)
}
