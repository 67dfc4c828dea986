package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	tint "github.com/lrstanley/bubbletint"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/tui/player"
	"github.com/ygelfand/animctl/internal/tui/view"
	"github.com/ygelfand/animctl/internal/tui/widget/navbar"
	"github.com/ygelfand/animctl/internal/ui"
)

const (
	stageID   = "stage"
	markersID = "markers"
	libraryID = "library"
)

// EntryID is the navbar id of a library entry.
func EntryID(name string) string {
	return "entry:" + name
}

type TabManager struct {
	tabModels    []tea.Model
	ids          []string
	navbar       *navbar.Navbar
	activeTabIdx int

	pm    *player.PlayerManager
	index *library.Index
	fs    afero.Fs
}

func NewTabManager(pm *player.PlayerManager, index *library.Index, fs afero.Fs, theme tint.Tint, sidebarWidth int) *TabManager {
	tm := &TabManager{pm: pm, index: index, fs: fs}
	tm.setupTabs(theme, sidebarWidth)
	return tm
}

// setupTabs rebuilds the tabs from the library, keeping the active tab
// when it still exists.
func (tm *TabManager) setupTabs(theme tint.Tint, sidebarWidth int) tea.Cmd {
	cfg := config.Get()

	activeID := stageID
	if tm.activeTabIdx < len(tm.ids) {
		activeID = tm.ids[tm.activeTabIdx]
	}

	var models []tea.Model
	var ids []string
	add := func(id string, m tea.Model) {
		ids = append(ids, id)
		models = append(models, m)
	}

	add(stageID, view.NewStageView(tm.pm, theme))
	add(markersID, view.NewMarkersView(tm.pm, theme))
	add(libraryID, view.NewLibraryView(tm.index, theme))
	playerItems := []navbar.NavItem{
		{ID: stageID, Title: "Stage", Type: "stage"},
		{ID: markersID, Title: "Markers", Type: "markers"},
		{ID: libraryID, Title: "Library", Type: "library"},
	}

	entries := make(map[string]library.Entry)
	var names []string
	for _, e := range tm.index.List() {
		if cfg.Entry(e.Name).Hidden {
			continue
		}
		entries[e.Name] = e
		names = append(names, e.Name)
	}

	var animItems []navbar.NavItem
	customIcons := make(map[string]string)
	for _, name := range cfg.OrderedNames(names) {
		e := entries[name]
		id := EntryID(name)
		itemType := "animation"
		if e.Broken() {
			itemType = "broken"
		}
		animItems = append(animItems, navbar.NavItem{ID: id, Title: name, Type: itemType})
		if icon := cfg.Entry(name).GetIcon(cfg.IconType); icon != "" {
			customIcons[id] = icon
		}
		add(id, view.NewEntryView(e, tm.fs, theme))
	}

	sections := []navbar.NavSection{
		{Title: "Player", Items: playerItems},
		{Title: "Animations", Items: animItems},
	}

	tm.tabModels = models
	tm.ids = ids
	tm.navbar = navbar.NewNavbar(sections, theme)
	tm.navbar.SetCustomIcons(customIcons)
	tm.navbar.Width = sidebarWidth
	if name := tm.pm.Entry().Name; name != "" {
		tm.navbar.SetLoaded(EntryID(name))
	}

	tm.activeTabIdx = max(tm.indexOf(activeID), 0)
	tm.navbar.SetActive(tm.activeTabIdx)

	var cmds []tea.Cmd
	cmds = append(cmds, tm.tabModels[tm.activeTabIdx].Init())

	// Propagate dimensions
	layout := ui.GetLayout()
	if layout.TotalWidth() > 0 {
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: layout.TotalWidth(), Height: layout.TotalHeight()}
		})
	}

	return tea.Batch(cmds...)
}

func (tm *TabManager) indexOf(id string) int {
	for i, tid := range tm.ids {
		if tid == id {
			return i
		}
	}
	return -1
}

func (tm *TabManager) ActiveModel() tea.Model {
	if tm.activeTabIdx >= 0 && tm.activeTabIdx < len(tm.tabModels) {
		return tm.tabModels[tm.activeTabIdx]
	}
	return nil
}

func (tm *TabManager) ActiveID() string {
	if tm.activeTabIdx >= 0 && tm.activeTabIdx < len(tm.ids) {
		return tm.ids[tm.activeTabIdx]
	}
	return ""
}

func (tm *TabManager) SetActive(idx int) tea.Cmd {
	if idx < 0 || idx >= len(tm.tabModels) {
		return nil
	}
	tm.activeTabIdx = idx
	tm.navbar.SetActive(tm.activeTabIdx)
	if tm.tabModels[tm.activeTabIdx] != nil {
		return tm.tabModels[tm.activeTabIdx].Init()
	}
	return nil
}

// SetActiveID switches to the tab with id, if any.
func (tm *TabManager) SetActiveID(id string) tea.Cmd {
	return tm.SetActive(tm.indexOf(id))
}

func (tm *TabManager) NextTab() tea.Cmd {
	return tm.SetActive((tm.activeTabIdx + 1) % len(tm.tabModels))
}

func (tm *TabManager) PrevTab() tea.Cmd {
	return tm.SetActive((tm.activeTabIdx - 1 + len(tm.tabModels)) % len(tm.tabModels))
}

// Broadcast sends msg to every tab.
func (tm *TabManager) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, model := range tm.tabModels {
		if model == nil {
			continue
		}
		var cmd tea.Cmd
		tm.tabModels[i], cmd = model.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
