package player

import "github.com/ygelfand/animctl/internal/presenters"

type PlayerStatus struct {
	Name string
	presenters.PlaybackStatus
}

type (
	// DrainMsg means work was posted to the player loop.
	DrainMsg struct{}
	// FrameTickMsg asks for the next frame while a play is running.
	FrameTickMsg struct{}
	// StatusChangedMsg is sent after the player state changed.
	StatusChangedMsg struct{}
	// PlayCompletedMsg is sent when a non-looping play finishes or is cut
	// short.
	PlayCompletedMsg struct {
		Name    string
		Segment string
	}
)

// Active reports whether the player bar should be shown.
func (ps PlayerStatus) Active() bool {
	return ps.Loaded || ps.FallenBack
}

// Position returns the progress as time into the animation.
func (ps PlayerStatus) Position() float64 {
	return ps.Progress * ps.Duration.Seconds()
}
