package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/tui/player"
	"github.com/ygelfand/animctl/internal/ui"
)

// StageView shows the frame of the loaded animation.
type StageView struct {
	pm     *player.PlayerManager
	theme  tint.Tint
	width  int
	height int
}

func NewStageView(pm *player.PlayerManager, theme tint.Tint) *StageView {
	return &StageView{pm: pm, theme: theme}
}

func (v *StageView) Init() tea.Cmd {
	return nil
}

func (v *StageView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		layout := ui.GetLayout()
		v.width = layout.InnerWidth()
		v.height = layout.ContentHeight()
	case ui.ThemeChangedMsg:
		v.theme = msg.Theme
	case tea.KeyMsg:
		// 1-9 play the markers in timeline order.
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= 9 {
			doc := v.pm.Document()
			if doc == nil {
				return v, nil
			}
			names := doc.MarkerNames()
			if n > len(names) {
				return v, nil
			}
			return v, func() tea.Msg { return ui.RequestPlayMsg{Segment: names[n-1]} }
		}
	}
	return v, nil
}

func (v *StageView) View() string {
	status := v.pm.Status()
	if !status.Active() {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			ui.MutedStyle(v.theme).Render("Nothing loaded.\nPick an animation in the sidebar or press / to search."))
	}

	var lines []string
	title := ui.TitleStyle(v.theme).MarginBottom(0).Render(status.Name)
	if doc := v.pm.Document(); doc != nil && doc.Description != "" {
		title += "  " + ui.MutedStyle(v.theme).Render(ui.Ellipsis(doc.Description, max(v.width-lipgloss.Width(title)-2, 0)))
	}
	lines = append(lines, title)

	frame := v.pm.Frame()
	if status.FallenBack {
		frame = ui.ErrorStyle(v.theme).Render(frame)
	}
	markers := v.markerLine()
	frameHeight := max(v.height-len(lines)-lipgloss.Height(markers), 0)
	lines = append(lines, lipgloss.Place(v.width, frameHeight, lipgloss.Center, lipgloss.Center, frame))
	if markers != "" {
		lines = append(lines, markers)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *StageView) markerLine() string {
	doc := v.pm.Document()
	if doc == nil || len(doc.Markers) == 0 {
		return ""
	}
	var parts []string
	for i, name := range doc.MarkerNames() {
		if i >= 9 {
			break
		}
		parts = append(parts, ui.AccentStyle(v.theme).Render(fmt.Sprintf("%d", i+1))+" "+name)
	}
	return ui.Ellipsis(strings.Join(parts, "  "), v.width)
}

func (v *StageView) HelpKeys() []ui.HelpKey {
	return []ui.HelpKey{
		{Key: "1-9", Desc: "Play Marker"},
	}
}
