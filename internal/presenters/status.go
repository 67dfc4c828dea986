package presenters

import (
	"fmt"
	"time"

	"github.com/ygelfand/animctl/internal/player"
	"github.com/ygelfand/animctl/internal/ui"
)

// PlaybackStatus is a snapshot of a player.
type PlaybackStatus struct {
	Source     string        `json:"source" yaml:"source"`
	Loaded     bool          `json:"loaded" yaml:"loaded"`
	Playing    bool          `json:"playing" yaml:"playing"`
	Paused     bool          `json:"paused" yaml:"paused"`
	Looping    bool          `json:"looping" yaml:"looping"`
	Progress   float64       `json:"progress" yaml:"progress"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Rate       float64       `json:"rate" yaml:"rate"`
	FallenBack bool          `json:"fallen_back" yaml:"fallen_back"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Snapshot reads the status of p. It must run on p's owner goroutine.
func Snapshot(p *player.Player) PlaybackStatus {
	s := PlaybackStatus{
		Loaded:     p.IsLoaded(),
		Playing:    p.IsPlaying(),
		Paused:     p.IsPaused(),
		Looping:    p.Controller().Looping(),
		Progress:   p.Progress(),
		Duration:   p.Duration(),
		Rate:       p.PlaybackRate(),
		FallenBack: p.IsFallenBack(),
	}
	if src := p.Source(); src != nil {
		s.Source = src.String()
	}
	if err := p.Diagnostics().Err; err != nil {
		s.Error = err.Error()
	}
	return s
}

// State is the one-word playback state.
func (s PlaybackStatus) State() string {
	switch {
	case s.FallenBack:
		return "failed"
	case !s.Loaded:
		return "unloaded"
	case s.Paused:
		return "paused"
	case s.Playing:
		return "playing"
	default:
		return "stopped"
	}
}

// StatusPresenter formats a playback snapshot
type StatusPresenter struct {
	Status PlaybackStatus
}

func (p StatusPresenter) Title() string { return "Playback Status" }

func (p StatusPresenter) Headers() []string {
	return []string{"SOURCE", "STATE", "POSITION", "DURATION", "RATE", "LOOP"}
}

func (p StatusPresenter) Rows() [][]string {
	s := p.Status
	pos := time.Duration(s.Progress * float64(s.Duration))
	return [][]string{{
		s.Source,
		s.State(),
		fmt.Sprintf("%s (%.0f%%)", ui.FormatDuration(pos), s.Progress*100),
		ui.FormatDuration(s.Duration),
		fmt.Sprintf("%gx", s.Rate),
		fmt.Sprintf("%t", s.Looping),
	}}
}

func (p StatusPresenter) Raw() any                  { return p.Status }
func (p StatusPresenter) SortableColumns() []string { return nil }
func (p StatusPresenter) SortBy(column string) bool { return false }
func (p StatusPresenter) DefaultSort() string       { return "" }
