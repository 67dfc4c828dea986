package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrNoSelection = errors.New("no selection made")

// Option is one choice offered by SelectOption.
type Option struct {
	Title string
	Desc  string
	Value string
}

func (o Option) FilterValue() string { return o.Title + " " + o.Desc }

type optionDelegate struct{}

func (d optionDelegate) Height() int                               { return 1 }
func (d optionDelegate) Spacing() int                              { return 0 }
func (d optionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d optionDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	o, ok := listItem.(Option)
	if !ok {
		return
	}

	theme := CurrentTheme()
	str := o.Title
	if o.Desc != "" {
		str += " " + MutedStyle(theme).Render(o.Desc)
	}

	if index == m.Index() {
		fmt.Fprint(w, lipgloss.NewStyle().PaddingLeft(2).Foreground(Accent(theme)).Render("> "+str))
		return
	}
	fmt.Fprint(w, lipgloss.NewStyle().PaddingLeft(4).Render(str))
}

type selectModel struct {
	list     list.Model
	choice   string
	quitting bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(min(msg.Height-2, 20))
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if o, ok := m.list.SelectedItem().(Option); ok {
				m.choice = o.Value
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.quitting {
		return ""
	}
	return "\n" + m.list.View()
}

// SelectOption presents options in an inline filterable list and returns
// the chosen value.
func SelectOption(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}

	theme := CurrentTheme()
	l := list.New(items, optionDelegate{}, 60, min(len(options)+6, 20))
	l.Title = strings.TrimSpace(title)
	l.SetShowStatusBar(false)
	l.Styles.Title = TitleStyle(theme)

	finalModel, err := tea.NewProgram(selectModel{list: l}).Run()
	if err != nil {
		return "", err
	}

	res := finalModel.(selectModel).choice
	if res == "" {
		return "", ErrNoSelection
	}
	return res, nil
}
