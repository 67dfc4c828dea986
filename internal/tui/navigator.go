package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ygelfand/animctl/internal/ui"
)

// Overlay is a model drawn over the stage. Returning a nil model from Update
// closes it.
type Overlay interface {
	tea.Model
}

// Navigator stacks overlays over the stage. The stage counts as covered while
// at least one overlay is open; onCover hears each transition exactly once.
type Navigator struct {
	overlays []Overlay
	width    int
	height   int
	onCover  func(covered bool) tea.Cmd
}

func NewNavigator(onCover func(covered bool) tea.Cmd) *Navigator {
	return &Navigator{onCover: onCover}
}

// Covered reports whether any overlay is open.
func (n *Navigator) Covered() bool {
	return len(n.overlays) > 0
}

func (n *Navigator) Push(o Overlay) tea.Cmd {
	wasCovered := n.Covered()
	n.overlays = append(n.overlays, o)

	cmds := []tea.Cmd{o.Init()}
	if n.width > 0 && n.height > 0 {
		_, cmd := o.Update(tea.WindowSizeMsg{Width: n.width, Height: n.height})
		cmds = append(cmds, cmd)
	}
	if !wasCovered {
		cmds = append(cmds, n.notify(true))
	}
	return tea.Batch(cmds...)
}

// Pop closes the top overlay.
func (n *Navigator) Pop() tea.Cmd {
	if !n.Covered() {
		return nil
	}
	n.overlays = n.overlays[:len(n.overlays)-1]
	if n.Covered() {
		return nil
	}
	return n.notify(false)
}

func (n *Navigator) notify(covered bool) tea.Cmd {
	if n.onCover == nil {
		return nil
	}
	return n.onCover(covered)
}

func (n *Navigator) ActiveOverlay() Overlay {
	if !n.Covered() {
		return nil
	}
	return n.overlays[len(n.overlays)-1]
}

// Update routes msg to the top overlay. The bool reports whether the overlay
// consumed msg, which is always true for input.
func (n *Navigator) Update(msg tea.Msg) (tea.Cmd, bool) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		n.width, n.height = size.Width, size.Height
	}

	top := n.ActiveOverlay()
	if top == nil {
		return nil, false
	}

	next, cmd := top.Update(msg)
	if next == nil {
		return tea.Batch(cmd, n.Pop()), true
	}
	n.overlays[len(n.overlays)-1] = next.(Overlay)

	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		return cmd, true
	}
	return cmd, false
}

// Render draws every open overlay over base, bottom first.
func (n *Navigator) Render(base string) string {
	for _, o := range n.overlays {
		base = ui.Overlay(base, o.View(), n.width, n.height)
	}
	return base
}
