package help

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/ui"
)

type HelpOverlayModel struct {
	groups []ui.HelpGroup
	theme  tint.Tint
	width  int
	height int
}

func NewHelpOverlayModel(groups []ui.HelpGroup, theme tint.Tint) *HelpOverlayModel {
	return &HelpOverlayModel{
		groups: groups,
		theme:  theme,
	}
}

func (m *HelpOverlayModel) Init() tea.Cmd {
	return nil
}

func (m *HelpOverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			return nil, nil // Signal to dismiss
		}
	}
	return m, nil
}

func (m *HelpOverlayModel) View() string {
	var sb strings.Builder

	accent := ui.Accent(m.theme)

	titleStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		MarginBottom(1)

	groupStyle := lipgloss.NewStyle().
		Foreground(m.theme.BrightBlack()).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(m.theme.BrightCyan()).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(m.theme.White())

	sb.WriteString(titleStyle.Render(" KEYS "))
	sb.WriteString("\n")

	for _, g := range m.groups {
		if len(g.Keys) == 0 {
			continue
		}
		sb.WriteString("\n" + groupStyle.Render(strings.ToUpper(g.Title)) + "\n")
		for _, k := range g.Keys {
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				keyStyle.Render(k.Key),
				descStyle.Render(k.Desc),
			) + "\n")
		}
	}

	sb.WriteString("\n" + ui.MutedStyle(m.theme).Render(" esc, q or ? to close "))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Background(lipgloss.Color("#1a1a1a")).
		Padding(1, 2).
		Width(max(m.width/2, 45)).
		MaxHeight(max(m.height-2, 10)).
		Render(sb.String())
}
