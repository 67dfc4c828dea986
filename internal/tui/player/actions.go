package player

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ygelfand/animctl/internal/ui"
)

// SeekStep is the progress moved by one seek key press.
const SeekStep = 0.05

type KeyMap struct {
	Play    key.Binding
	Loop    key.Binding
	Toggle  key.Binding
	Stop    key.Binding
	Back    key.Binding
	Forward key.Binding
	Slower  key.Binding
	Faster  key.Binding
	Reverse key.Binding
}

var Keys = KeyMap{
	Play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Play Once")),
	Loop:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "Play Looped")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "Pause/Resume")),
	Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Stop")),
	Back:    key.NewBinding(key.WithKeys("left", ","), key.WithHelp("←", "Seek Back")),
	Forward: key.NewBinding(key.WithKeys("right", "."), key.WithHelp("→", "Seek Forward")),
	Slower:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "Half Speed")),
	Faster:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "Double Speed")),
	Reverse: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "Reverse")),
}

// HandleKey runs the player action bound to msg. The bool is false when
// the key is not a player key or nothing is loaded.
func (pm *PlayerManager) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !pm.status.Active() {
		return nil, false
	}
	switch {
	case key.Matches(msg, Keys.Play):
		return pm.Play(0, 1, false), true
	case key.Matches(msg, Keys.Loop):
		return pm.Play(0, 1, true), true
	case key.Matches(msg, Keys.Toggle):
		return pm.TogglePause(), true
	case key.Matches(msg, Keys.Stop):
		return pm.Stop(), true
	case key.Matches(msg, Keys.Back):
		return pm.Seek(-SeekStep), true
	case key.Matches(msg, Keys.Forward):
		return pm.Seek(SeekStep), true
	case key.Matches(msg, Keys.Slower):
		return pm.ScaleRate(0.5), true
	case key.Matches(msg, Keys.Faster):
		return pm.ScaleRate(2), true
	case key.Matches(msg, Keys.Reverse):
		return pm.Reverse(), true
	}
	return nil, false
}

// HandleRequest serves a play request from a view.
func (pm *PlayerManager) HandleRequest(msg ui.RequestPlayMsg) tea.Cmd {
	if msg.Segment != "" {
		return pm.PlaySegment(msg.Segment, msg.Looped)
	}
	return pm.Play(msg.From, msg.To, msg.Looped)
}

func HelpKeys() []ui.HelpKey {
	bindings := []key.Binding{
		Keys.Play, Keys.Loop, Keys.Toggle, Keys.Stop,
		Keys.Back, Keys.Forward, Keys.Slower, Keys.Faster, Keys.Reverse,
	}
	keys := make([]ui.HelpKey, 0, len(bindings))
	for _, b := range bindings {
		keys = append(keys, ui.HelpKey{Key: b.Help().Key, Desc: b.Help().Desc})
	}
	return keys
}
