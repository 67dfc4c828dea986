package playback

import (
	"fmt"
	"log/slog"

	"github.com/ygelfand/animctl/internal/compositor"
)

type playState int

const (
	playCreated playState = iota
	playStarted
	playCompleted
)

func (s playState) String() string {
	switch s {
	case playCreated:
		return "created"
	case playStarted:
		return "started"
	case playCompleted:
		return "completed"
	}
	return fmt.Sprintf("playState(%d)", int(s))
}

// play is one playback operation over [from, to]. It holds a plain
// reference to its owner; the owner always completes it before letting go.
type play struct {
	owner  *Controller
	from   float64
	to     float64
	looped bool

	state        playState
	paused       bool
	pausedHidden bool

	anim        *compositor.AnimationController
	cancelBatch func()
	handle      *Handle
}

func newPlay(owner *Controller, from, to float64, looped bool) *play {
	return &play{
		owner:        owner,
		from:         from,
		to:           to,
		looped:       looped,
		pausedHidden: owner.hidden,
		handle:       newHandle(owner.dispatcher),
	}
}

func (p *play) isCurrent() bool {
	return p.owner.nowPlaying == p
}

func (p *play) mustBeLive(op string) {
	if p.state == playCompleted {
		panic(fmt.Sprintf("playback: %s on a completed play", op))
	}
}

func (p *play) start() {
	if p.state != playCreated {
		panic(fmt.Sprintf("playback: start on a %s play", p.state))
	}
	if !p.isCurrent() {
		panic("playback: start on a play that is not current")
	}

	d := playDuration(p.from, p.to, p.owner.duration)
	if d < p.owner.minPlayDuration {
		slog.Debug("Playback: range too short to animate", "from", p.from, "to", p.to, "duration", d)
		// Completes p through the progress write.
		p.owner.SetProgress(p.from)
		return
	}

	var batch *compositor.Batch
	if !p.looped {
		batch = p.owner.surface.CreateScopedBatch()
	}
	p.anim = p.owner.surface.StartAnimation(ProgressProperty, buildAnimation(p.from, p.to, p.looped, d))
	p.state = playStarted

	if p.paused || p.pausedHidden {
		p.anim.Pause()
	}

	rate := p.owner.rate
	p.anim.SetPlaybackRate(rate)
	if rate < 0 {
		p.anim.Seek(1)
	}

	if batch != nil {
		dispatcher := p.owner.dispatcher
		p.cancelBatch = batch.OnCompleted(func() {
			dispatcher.Post(p.complete)
		})
		batch.End()
	}

	slog.Debug("Playback: play started", "from", p.from, "to", p.to, "looped", p.looped, "duration", d, "rate", rate)

	if p.isCurrent() {
		p.owner.setIsPlaying(true)
	}
}

// complete runs its effects once. It may be called from any trigger: batch
// completion, a progress write, supersession or teardown.
func (p *play) complete() {
	if p.state == playCompleted {
		return
	}
	p.state = playCompleted

	if p.cancelBatch != nil {
		p.cancelBatch()
		p.cancelBatch = nil
	}
	if p.anim != nil {
		p.anim.Stop()
	}

	if p.isCurrent() {
		// Detach before flipping the flag so observers see no current play.
		p.owner.nowPlaying = nil
		p.owner.setIsPlaying(false)
	}

	slog.Debug("Playback: play completed", "from", p.from, "to", p.to)
	p.handle.resolve()
}

func (p *play) pause() {
	p.mustBeLive("pause")
	p.paused = true
	if p.anim != nil && !p.pausedHidden {
		p.anim.Pause()
	}
}

func (p *play) resume() {
	p.mustBeLive("resume")
	p.paused = false
	if p.anim != nil && !p.pausedHidden {
		p.anim.Resume()
	}
}

func (p *play) onHiding() {
	p.mustBeLive("hide")
	if p.pausedHidden {
		return
	}
	p.pausedHidden = true
	if p.anim != nil && !p.paused {
		p.anim.Pause()
	}
}

func (p *play) onUnhiding() {
	p.mustBeLive("unhide")
	if !p.pausedHidden {
		return
	}
	p.pausedHidden = false
	if p.anim != nil && !p.paused {
		p.anim.Resume()
	}
}

func (p *play) setPlaybackRate(rate float64) {
	p.mustBeLive("set rate")
	if p.anim != nil {
		p.anim.SetPlaybackRate(rate)
	}
}

// isPaused reports whether either pause source holds the play.
func (p *play) isPaused() bool {
	return p.paused || p.pausedHidden
}
