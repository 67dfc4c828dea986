package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/tui/player"
	"github.com/ygelfand/animctl/internal/tui/view"
	tuiconfig "github.com/ygelfand/animctl/internal/tui/widget/config"
	"github.com/ygelfand/animctl/internal/tui/widget/help"
	tuisearch "github.com/ygelfand/animctl/internal/tui/widget/search"
	"github.com/ygelfand/animctl/internal/tui/widget/settings"
	"github.com/ygelfand/animctl/internal/ui"
	"go.dalton.dog/bubbleup"
)

type Controller struct {
	theme tint.Tint
	index *library.Index

	tabManager *TabManager
	navigator  *Navigator
	player     *player.PlayerManager
	alert      bubbleup.AlertModel

	playerStatus player.PlayerStatus
	// blurred tracks terminal focus; the player is visible only while the
	// terminal is focused and no overlay covers the stage.
	blurred bool
	visible bool
}

func NewController(index *library.Index) *Controller {
	cfg := config.Get()
	activeTheme := ui.CurrentTheme()
	if cfg.Theme == "" {
		cfg.Theme = activeTheme.ID()
		_ = cfg.Save()
	}
	ui.GetLayout().SetTheme(activeTheme)

	alert := bubbleup.NewAlertModel(40, true, 10*time.Second).
		WithPosition(bubbleup.TopRightPosition)
	alert.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       "error",
		ForeColor: "#FF0000",
		Prefix:    "❌ ",
	})
	alert.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       "done",
		ForeColor: "#86efac",
		Prefix:    "✓ ",
	})

	pm := player.NewPlayerManager()
	c := &Controller{
		theme:   activeTheme,
		index:   index,
		player:  pm,
		alert:   alert,
		visible: true,
	}
	c.navigator = NewNavigator(func(bool) tea.Cmd { return c.syncVisibility() })
	c.tabManager = NewTabManager(pm, index, afero.NewOsFs(), activeTheme, ui.SidebarWidth)
	return c
}

func (c *Controller) Init() tea.Cmd {
	var cmds []tea.Cmd
	if model := c.tabManager.ActiveModel(); model != nil {
		cmds = append(cmds, model.Init())
	}

	if overlay := c.navigator.ActiveOverlay(); overlay != nil {
		cmds = append(cmds, overlay.Init())
	}

	cmds = append(cmds, c.player.WaitForUpdates())
	cmds = append(cmds, c.alert.Init())
	return tea.Batch(cmds...)
}

// Close stops playback. It is called after the program exits.
func (c *Controller) Close() {
	c.player.Close()
}

func (c *Controller) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if err, ok := msg.(error); ok {
		slog.Error("TUI error", "error", err)
		cmds = append(cmds, c.alert.NewAlertCmd("error", err.Error()))
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.GetLayout().Update(msg.Width, msg.Height, c.playerStatus.Active())
		c.tabManager.Broadcast(msg)

	case tea.FocusMsg:
		c.blurred = false
		return c, c.syncVisibility()
	case tea.BlurMsg:
		c.blurred = true
		return c, c.syncVisibility()

	case player.DrainMsg:
		cmds = append(cmds, c.player.HandleDrain(), c.syncPlayer())
		return c, tea.Batch(cmds...)
	case player.FrameTickMsg:
		return c, tea.Batch(c.player.HandleTick(), c.syncPlayer())
	case player.StatusChangedMsg:
		return c, tea.Batch(c.syncPlayer(), c.tabManager.Broadcast(msg))
	case player.PlayCompletedMsg:
		text := msg.Name + " finished"
		if msg.Segment != "" {
			text = fmt.Sprintf("%s: %s finished", msg.Name, msg.Segment)
		}
		slog.Debug("TUI: play completed", "name", msg.Name, "segment", msg.Segment)
		return c, c.alert.NewAlertCmd("done", text)

	case settings.SettingsFinishedMsg:
		c.setTheme(ui.CurrentTheme())
		return c, c.tabManager.setupTabs(c.theme, ui.SidebarWidth)

	case tuiconfig.ConfigFinishedMsg:
		cfg := config.Get()
		cfg.IconType = msg.IconType
		_ = cfg.Save()
		return c, c.tabManager.setupTabs(c.theme, ui.SidebarWidth)

	case view.ReindexedMsg:
		return c, c.tabManager.setupTabs(c.theme, ui.SidebarWidth)

	case ui.ThemeChangedMsg:
		c.setTheme(msg.Theme)
		c.tabManager.navbar.Update(msg)
		return c, c.tabManager.Broadcast(msg)
	}

	if navCmd, captured := c.navigator.Update(msg); captured {
		return c, navCmd
	}

	switch msg := msg.(type) {
	case ui.SelectAnimationMsg:
		return c, c.load(msg)
	case ui.RequestPlayMsg:
		return c, tea.Batch(c.player.HandleRequest(msg), c.syncPlayer())

	case tea.KeyMsg:
		slog.Log(context.Background(), config.LevelTrace, "TUI: key press", "key", msg.String())
		switch msg.String() {
		case "q", "ctrl+c":
			return c, tea.Quit
		case "s":
			return c, c.navigator.Push(settings.NewSettingsOverlayModel(c.theme))
		case "c":
			return c, c.navigator.Push(tuiconfig.NewConfigOverlayModel(c.index.List()))
		case "g":
			return c, c.tabManager.SetActiveID(stageID)
		case "?":
			return c, c.showHelp()
		case "tab":
			return c, c.tabManager.NextTab()
		case "shift+tab":
			return c, c.tabManager.PrevTab()
		case "/":
			return c, c.navigator.Push(tuisearch.NewSearchOverlayModel(c.index, c.theme))
		}
		if cmd, handled := c.player.HandleKey(msg); handled {
			return c, tea.Batch(cmd, c.syncPlayer())
		}
	}

	var alertCmd tea.Cmd
	var alertModel tea.Model
	alertModel, alertCmd = c.alert.Update(msg)
	c.alert = alertModel.(bubbleup.AlertModel)
	cmds = append(cmds, alertCmd)

	if model := c.tabManager.ActiveModel(); model != nil {
		var cmd tea.Cmd
		c.tabManager.tabModels[c.tabManager.activeTabIdx], cmd = model.Update(msg)
		cmds = append(cmds, cmd)
	}

	return c, tea.Batch(cmds...)
}

func (c *Controller) setTheme(t tint.Tint) {
	ui.GetLayout().SetTheme(t)
	c.theme = t
}

// load swaps the player to the selected entry and shows the stage.
func (c *Controller) load(msg ui.SelectAnimationMsg) tea.Cmd {
	entry, err := c.index.Find(msg.Name)
	if err != nil || entry.Path != msg.Path {
		entry = library.Entry{Summary: animation.Summary{Name: msg.Name, Path: msg.Path}}
	}

	cmds := []tea.Cmd{c.player.Load(entry)}
	if msg.Play && !c.player.Status().Playing {
		cmds = append(cmds, c.player.Play(0, 1, false))
	}
	c.tabManager.navbar.SetLoaded(EntryID(entry.Name))
	cmds = append(cmds, c.syncPlayer(), c.tabManager.SetActiveID(stageID))
	return tea.Batch(cmds...)
}

// syncPlayer copies the player status and resizes the layout when the
// player bar appears or disappears.
// syncVisibility tells the player when the stage stops or starts being seen.
// The player keeps a single hidden flag, so only transitions are forwarded.
func (c *Controller) syncVisibility() tea.Cmd {
	visible := !c.blurred && !c.navigator.Covered()
	if visible == c.visible {
		return nil
	}
	c.visible = visible
	return c.player.SetVisible(visible)
}

func (c *Controller) syncPlayer() tea.Cmd {
	oldActive := c.playerStatus.Active()
	c.playerStatus = c.player.Status()
	if oldActive == c.playerStatus.Active() {
		return nil
	}
	layout := ui.GetLayout()
	layout.Update(layout.TotalWidth(), layout.TotalHeight(), c.playerStatus.Active())
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: layout.TotalWidth(), Height: layout.TotalHeight()}
	}
}

func (c *Controller) showHelp() tea.Cmd {
	groups := []ui.HelpGroup{
		{Title: "Global", Keys: []ui.HelpKey{
			{Key: "tab", Desc: "Next Tab"},
			{Key: "shift+tab", Desc: "Previous Tab"},
			{Key: "g", Desc: "Stage"},
			{Key: "/", Desc: "Search"},
			{Key: "s", Desc: "Settings"},
			{Key: "c", Desc: "Sidebar Icons and Order"},
			{Key: "q", Desc: "Quit"},
			{Key: "?", Desc: "Help"},
		}},
	}
	if c.playerStatus.Active() {
		groups = append(groups, ui.HelpGroup{Title: "Player", Keys: player.HelpKeys()})
	}
	if provider, ok := c.tabManager.ActiveModel().(ui.HelpProvider); ok {
		groups = append(groups, ui.HelpGroup{Title: "View", Keys: provider.HelpKeys()})
	}

	return c.navigator.Push(help.NewHelpOverlayModel(groups, c.theme))
}

func (c *Controller) View() string {
	base := c.renderBaseView()
	base = c.navigator.Render(base)
	return c.alert.Render(base)
}

func (c *Controller) renderBaseView() string {
	layout := ui.GetLayout()
	if layout.TotalWidth() == 0 {
		return "Initializing..."
	}

	// Total height available for the main area (excluding footer)
	mainHeight := max(layout.TotalHeight()-1, 0)

	c.tabManager.navbar.Height = mainHeight
	sidebar := c.tabManager.navbar.View()

	windowStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(c.theme.BrightBlack()).
		Padding(0, 1).
		Width(layout.InnerWidth() + 2).
		Height(layout.ContentHeight()).
		MaxHeight(layout.ContentHeight() + 2)

	content := ""
	if model := c.tabManager.ActiveModel(); model != nil {
		content = model.View()
	}

	body := windowStyle.Render(content)

	if c.playerStatus.Active() {
		body = lipgloss.JoinVertical(lipgloss.Left, body, c.renderPlayer())
	}

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)

	footer := lipgloss.NewStyle().
		Width(layout.TotalWidth()).
		Background(c.theme.BrightBlack()).
		Foreground(c.theme.White()).
		Padding(0, 1).
		Render(ui.Ellipsis(" q: quit | tab: next | /: search | s: settings | p: play | space: pause | x: stop | ?: help ", layout.TotalWidth()-2))

	return lipgloss.JoinVertical(lipgloss.Left, mainArea, footer)
}

func (c *Controller) renderPlayer() string {
	layout := ui.GetLayout()
	width := layout.InnerWidth() + 2
	st := c.playerStatus

	var state string
	switch st.State() {
	case "failed":
		state = "✖ FAILED"
	case "playing":
		state = "▶ PLAYING"
	case "paused":
		state = "⏸ PAUSED"
	default:
		state = "■ STOPPED"
	}
	if st.Looping && st.Playing {
		state += " ↻"
	}

	accent := ui.Accent(c.theme)

	position := time.Duration(st.Progress * float64(st.Duration))
	timeStr := fmt.Sprintf("%s / %s  %gx", ui.FormatDuration(position), ui.FormatDuration(st.Duration), st.Rate)

	barWidth := max(width-16-lipgloss.Width(timeStr)-2, 10)
	bar := lipgloss.NewStyle().Foreground(accent).Render(ui.ProgressBar(st.Progress, barWidth))

	title := st.Name
	if st.Error != "" {
		title += "  " + ui.ErrorStyle(c.theme).Render(st.Error)
	}
	titleLine := lipgloss.NewStyle().Foreground(c.theme.BrightYellow()).Bold(true).Width(width - 2).Render(ui.Ellipsis(title, width-2))

	playerStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(accent).Width(width).Padding(0, 1)

	row2 := lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Foreground(c.theme.BrightCyan()).Width(14).Render(state),
		bar,
		lipgloss.NewStyle().Width(lipgloss.Width(timeStr)+2).Align(lipgloss.Right).Render(timeStr),
	)

	return playerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, row2))
}
