package config

import (
	"slices"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kyokomi/emoji/v2"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/tui/widget/iconpicker"
	"github.com/ygelfand/animctl/internal/ui"
)

type entryItem struct {
	name string
	desc string
	icon string
}

func (i entryItem) Title() string {
	if i.icon != "" {
		return i.icon + " " + i.name
	}
	return i.name
}
func (i entryItem) Description() string { return i.desc }
func (i entryItem) FilterValue() string { return i.name }

// ConfigOverlayModel edits the sidebar: which animations are shown, their
// icons and their order.
type ConfigOverlayModel struct {
	lists           [2]list.Model
	picker          *iconpicker.Picker
	entries         []library.Entry
	focusSide       int // 0: Hidden, 1: Shown
	currentIconType config.IconType
}

type ConfigFinishedMsg struct {
	IconType config.IconType
}

func NewConfigOverlayModel(entries []library.Entry) *ConfigOverlayModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	cfg := config.Get()
	iconType := cfg.IconType
	if iconType == "" {
		iconType = config.IconTypeEmoji
	}

	m := &ConfigOverlayModel{
		currentIconType: iconType,
		focusSide:       1,
	}
	for _, e := range entries {
		if !e.Broken() {
			m.entries = append(m.entries, e)
		}
	}

	titles := []string{"Hidden", "Shown"}
	for i := range m.lists {
		m.lists[i] = list.New(nil, delegate, 30, 15)
		m.lists[i].Title = titles[i]
		m.lists[i].SetShowStatusBar(false)
		m.lists[i].SetFilteringEnabled(false)
		m.lists[i].KeyMap.CursorUp.SetKeys("up")
		m.lists[i].KeyMap.CursorDown.SetKeys("down")
		m.lists[i].KeyMap.PrevPage.SetKeys("pgup")
		m.lists[i].KeyMap.NextPage.SetKeys("pgdown")
	}

	m.updateColumns()
	return m
}

func (m *ConfigOverlayModel) updateColumns() {
	cfg := config.Get()

	byName := make(map[string]library.Entry, len(m.entries))
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		byName[e.Name] = e
		names = append(names, e.Name)
	}

	var hiddenItems, shownItems []list.Item
	for _, name := range cfg.OrderedNames(names) {
		opts := cfg.Entry(name)
		icon := opts.GetIcon(m.currentIconType)
		if icon != "" && m.currentIconType == config.IconTypeEmoji {
			icon = emoji.Sprint(icon)
		}
		item := entryItem{name: name, desc: ui.FormatDuration(byName[name].Duration), icon: icon}
		if opts.Hidden {
			hiddenItems = append(hiddenItems, item)
		} else {
			shownItems = append(shownItems, item)
		}
	}

	m.lists[0].SetItems(hiddenItems)
	m.lists[1].SetItems(shownItems)
}

func (m *ConfigOverlayModel) Init() tea.Cmd {
	return nil
}

func (m *ConfigOverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.picker != nil {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
			m.picker = nil
			return m, nil
		}

		_, cmd = m.picker.Update(msg)

		if m.picker.Picked {
			m.setIcon(m.picker.Icon)
			m.picker = nil
			m.updateColumns()
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		for i := range m.lists {
			m.lists[i].SetSize(30, 15)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "tab", "shift+tab":
			m.focusSide = (m.focusSide + 1) % 2
			return m, nil

		case "enter":
			item, ok := m.lists[m.focusSide].SelectedItem().(entryItem)
			if !ok {
				return m, nil
			}
			m.picker = iconpicker.New(m.entry(item.name), m.currentIconType, config.Get().Entry(item.name).GetIcon(m.currentIconType))
			return m, m.picker.Init()

		case "m":
			switch m.currentIconType {
			case config.IconTypeEmoji:
				m.currentIconType = config.IconTypeNerdFonts
			case config.IconTypeNerdFonts:
				m.currentIconType = config.IconTypeASCII
			default:
				m.currentIconType = config.IconTypeEmoji
			}
			m.updateColumns()
			return m, nil

		case "h":
			item, ok := m.lists[m.focusSide].SelectedItem().(entryItem)
			if !ok {
				return m, nil
			}
			cfg := config.Get()
			opts := cfg.Entry(item.name)
			opts.Hidden = m.focusSide == 1
			cfg.SetEntry(item.name, opts)
			_ = cfg.Save()
			m.updateColumns()
			return m, nil

		case "j", "k":
			if m.focusSide != 1 {
				break
			}
			m.move(msg.String() == "j")
			return m, nil

		case "esc":
			return nil, func() tea.Msg { return ConfigFinishedMsg{IconType: m.currentIconType} }
		}
	}

	m.lists[m.focusSide], cmd = m.lists[m.focusSide].Update(msg)
	return m, cmd
}

func (m *ConfigOverlayModel) entry(name string) library.Entry {
	for _, e := range m.entries {
		if e.Name == name {
			return e
		}
	}
	return library.Entry{}
}

func (m *ConfigOverlayModel) setIcon(icon string) {
	item, ok := m.lists[m.focusSide].SelectedItem().(entryItem)
	if !ok {
		return
	}
	cfg := config.Get()
	opts := cfg.Entry(item.name)
	switch m.currentIconType {
	case config.IconTypeEmoji:
		opts.IconEmoji = icon
	case config.IconTypeNerdFonts:
		opts.IconNerd = icon
	case config.IconTypeASCII:
		opts.IconASCII = icon
	}
	cfg.SetEntry(item.name, opts)
	_ = cfg.Save()
}

// move swaps the selected shown entry with its neighbour and records the
// full shown order.
func (m *ConfigOverlayModel) move(down bool) {
	idx := m.lists[1].Index()
	items := m.lists[1].Items()
	newIdx := idx
	if down && idx < len(items)-1 {
		newIdx = idx + 1
	} else if !down && idx > 0 {
		newIdx = idx - 1
	}
	if newIdx == idx {
		return
	}

	order := make([]string, 0, len(items))
	for _, it := range items {
		order = append(order, it.(entryItem).name)
	}
	order[idx], order[newIdx] = order[newIdx], order[idx]

	cfg := config.Get()
	for _, name := range cfg.EntryOrder {
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}
	cfg.EntryOrder = order
	_ = cfg.Save()

	m.updateColumns()
	m.lists[1].Select(newIdx)
}

func (m *ConfigOverlayModel) View() string {
	theme := ui.CurrentTheme()
	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(ui.Accent(theme)).
		Padding(1, 2).
		Background(lipgloss.Color("#111111"))

	if m.picker != nil {
		return overlayStyle.Render(m.picker.View())
	}

	listStyle := lipgloss.NewStyle().Padding(1)
	activeListStyle := listStyle.
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ui.Accent(theme))

	var views []string
	for i := range m.lists {
		lView := m.lists[i].View()
		if m.focusSide == i {
			views = append(views, activeListStyle.Render(lView))
		} else {
			views = append(views, listStyle.Render(lView))
		}
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, views...)

	modeLabel := lipgloss.NewStyle().Foreground(theme.BrightBlue()).Bold(true).Render(" Mode: " + string(m.currentIconType))

	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		modeLabel,
		content,
		"\n [arrows/tab] switch | [enter] icon | [m] type | [h] hide | [j/k] order | [esc] finish",
	))
}
