package settings

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/ui"
)

type SettingsFinishedMsg struct {
	Config *config.Config
}

type settingItem struct {
	id          string
	title       string
	description string
	current     string
}

func (i settingItem) Title() string       { return i.title }
func (i settingItem) Description() string { return i.description + " (Current: " + i.current + ")" }
func (i settingItem) FilterValue() string { return i.title }

type selectionItem struct {
	id    string
	value string
}

func (i selectionItem) Title() string       { return i.value }
func (i selectionItem) Description() string { return "" }
func (i selectionItem) FilterValue() string { return i.value }

var (
	rateChoices  = []float64{0.25, 0.5, 1, 2, 4}
	frameChoices = []int{12, 24, 30, 60}
)

type SettingsOverlayModel struct {
	list          list.Model
	selectionList list.Model
	width, height int
	theme         tint.Tint
	tints         []tint.Tint
	isSelecting   bool
	activeSetting string
}

func NewSettingsOverlayModel(theme tint.Tint) *SettingsOverlayModel {
	l := list.New(nil, list.NewDefaultDelegate(), 68, 20)
	l.Title = "Settings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")

	s := list.New(nil, list.NewDefaultDelegate(), 68, 20)
	s.SetShowStatusBar(false)
	s.SetFilteringEnabled(false)

	m := &SettingsOverlayModel{
		list:          l,
		selectionList: s,
		theme:         theme,
		tints:         ui.Themes(),
	}
	m.updateItems()
	return m
}

func (m *SettingsOverlayModel) updateItems() {
	cfg := config.Get()
	items := []list.Item{
		settingItem{id: "theme", title: "Theme", description: "UI color scheme", current: cfg.Theme},
		settingItem{id: "icon_type", title: "Icon Mode", description: "Icon set for the sidebar", current: string(cfg.IconType)},
		settingItem{id: "name_format", title: "Name Format", description: "How sidebar entries are labelled", current: string(cfg.NameFormat)},
		settingItem{id: "playback_rate", title: "Playback Rate", description: "Default speed for animations", current: fmt.Sprintf("%gx", cfg.PlaybackRate)},
		settingItem{id: "frame_rate", title: "Frame Rate", description: "Compositor ticks per second", current: strconv.Itoa(cfg.FrameRate)},
		settingItem{id: "auto_play", title: "Auto Play", description: "Loop animations as soon as they load", current: fmt.Sprintf("%v", cfg.AutoPlay)},
		settingItem{id: "watch_files", title: "Watch Files", description: "Reload animations when their file changes", current: fmt.Sprintf("%v", cfg.WatchFiles)},
		settingItem{id: "cache", title: "Enable Cache", description: "Cache rendered frames and the library index", current: fmt.Sprintf("%v", !cfg.NoCache)},
		settingItem{id: "default_to_tui", title: "Default to TUI", description: "Start TUI if no command given", current: fmt.Sprintf("%v", cfg.DefaultToTui)},
	}
	m.list.SetItems(items)
}

func (m *SettingsOverlayModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsOverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listW := min(m.width-2, 88)
		listH := min(m.height-10, 30)
		m.list.SetSize(listW, listH)
		m.selectionList.SetSize(listW, listH)
	}

	if m.isSelecting {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
			m.isSelecting = false
			return m, nil
		}

		oldIndex := m.selectionList.Index()
		m.selectionList, cmd = m.selectionList.Update(msg)
		newIndex := m.selectionList.Index()

		// Preview themes while scrolling.
		if m.activeSetting == "theme" && oldIndex != newIndex {
			selected := m.tints[newIndex]
			m.theme = selected
			return m, tea.Batch(cmd, func() tea.Msg { return ui.ThemeChangedMsg{Theme: selected} })
		}

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.selectionList.SelectedItem().(selectionItem); ok {
				m.applySetting(m.activeSetting, selected.id)
			}
			m.isSelecting = false
			m.updateItems()
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "s":
			return nil, func() tea.Msg { return SettingsFinishedMsg{Config: config.Get()} }
		case "enter":
			if item, ok := m.list.SelectedItem().(settingItem); ok {
				if m.handleToggle(item.id) {
					return m, nil
				}
				m.prepareSelection(item.id)
				m.isSelecting = true
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *SettingsOverlayModel) handleToggle(id string) bool {
	cfg := config.Get()
	handled := true

	switch id {
	case "cache":
		cfg.NoCache = !cfg.NoCache
	case "auto_play":
		cfg.AutoPlay = !cfg.AutoPlay
	case "watch_files":
		cfg.WatchFiles = !cfg.WatchFiles
	case "default_to_tui":
		cfg.DefaultToTui = !cfg.DefaultToTui
	default:
		handled = false
	}

	if handled {
		_ = cfg.Save()
		m.updateItems()
	}

	return handled
}

func (m *SettingsOverlayModel) prepareSelection(id string) {
	m.activeSetting = id
	var items []list.Item

	cfg := config.Get()
	current := ""
	switch id {
	case "theme":
		m.selectionList.Title = "Choose Theme"
		for _, t := range m.tints {
			items = append(items, selectionItem{id: t.ID(), value: t.DisplayName()})
		}
		current = cfg.Theme
	case "icon_type":
		m.selectionList.Title = "Choose Icon Mode"
		items = []list.Item{
			selectionItem{id: string(config.IconTypeEmoji), value: "Emoji"},
			selectionItem{id: string(config.IconTypeNerdFonts), value: "Nerd Fonts"},
			selectionItem{id: string(config.IconTypeASCII), value: "ASCII"},
		}
		current = string(cfg.IconType)
	case "name_format":
		m.selectionList.Title = "Choose Name Format"
		items = []list.Item{
			selectionItem{id: string(config.NameFormatIconName), value: "Icon + Name"},
			selectionItem{id: string(config.NameFormatNameIcon), value: "Name + Icon"},
			selectionItem{id: string(config.NameFormatIconOnly), value: "Icon Only"},
			selectionItem{id: string(config.NameFormatName), value: "Name Only"},
		}
		current = string(cfg.NameFormat)
	case "playback_rate":
		m.selectionList.Title = "Choose Playback Rate"
		for _, r := range rateChoices {
			items = append(items, selectionItem{id: strconv.FormatFloat(r, 'g', -1, 64), value: fmt.Sprintf("%gx", r)})
		}
		current = strconv.FormatFloat(cfg.PlaybackRate, 'g', -1, 64)
	case "frame_rate":
		m.selectionList.Title = "Choose Frame Rate"
		for _, f := range frameChoices {
			items = append(items, selectionItem{id: strconv.Itoa(f), value: fmt.Sprintf("%d fps", f)})
		}
		current = strconv.Itoa(cfg.FrameRate)
	}

	m.selectionList.SetItems(items)
	for i, it := range items {
		if it.(selectionItem).id == current {
			m.selectionList.Select(i)
			break
		}
	}
}

func (m *SettingsOverlayModel) applySetting(setting, value string) {
	cfg := config.Get()
	switch setting {
	case "theme":
		cfg.Theme = value
	case "icon_type":
		cfg.IconType = config.IconType(value)
	case "name_format":
		cfg.NameFormat = config.NameFormat(value)
	case "playback_rate":
		if r, err := strconv.ParseFloat(value, 64); err == nil {
			cfg.PlaybackRate = r
		}
	case "frame_rate":
		if f, err := strconv.Atoi(value); err == nil {
			cfg.FrameRate = f
		}
	}
	_ = cfg.Save()
}

func (m *SettingsOverlayModel) View() string {
	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(ui.Accent(m.theme)).
		Padding(1, 2).
		Background(lipgloss.Color("#111111"))

	var content string
	if m.isSelecting {
		content = m.selectionList.View()
	} else {
		content = m.list.View()
	}

	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		content,
		"\n [enter] change | [esc/q/s] back/close",
	))
}
