// Package playback coordinates plays of a progress range over a rendering
// backend. A Controller owns the Progress scalar and at most one current
// play; every method must be called from the goroutine that drains its
// Dispatcher.
package playback

import (
	"log/slog"
	"time"
)

// Observer receives state changes synchronously on the owner goroutine.
// Callbacks may call back into the Controller.
type Observer struct {
	IsPlayingChanged func(playing bool)
	DurationChanged  func(d time.Duration)
	LoadedChanged    func(loaded bool)
}

type Option func(*Controller)

func WithMinPlayDuration(d time.Duration) Option {
	return func(c *Controller) { c.minPlayDuration = d }
}

func WithAutoPlay(enabled bool) Option {
	return func(c *Controller) { c.autoPlay = enabled }
}

func WithPlaybackRate(rate float64) Option {
	return func(c *Controller) { c.rate = rate }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

type Controller struct {
	surface    Surface
	dispatcher Dispatcher
	observer   Observer

	minPlayDuration time.Duration
	autoPlay        bool
	rate            float64

	duration  time.Duration
	loaded    bool
	hidden    bool
	isPlaying bool
	closed    bool

	nowPlaying  *play
	playVersion uint64
}

// New creates a Controller driving surface's Progress scalar. Handle
// callbacks are posted to dispatcher, which must be drained by the
// goroutine that calls the Controller.
func New(surface Surface, dispatcher Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		surface:         surface,
		dispatcher:      dispatcher,
		minPlayDuration: DefaultMinPlayDuration,
		rate:            1,
	}
	for _, opt := range opts {
		opt(c)
	}
	surface.InsertScalar(ProgressProperty, 0)
	return c
}

// RequestPlay supersedes any current play with a play of [from, to]. The
// returned Handle completes when that play completes for any reason. If
// content is not loaded yet the play waits for OnContentChanged.
func (c *Controller) RequestPlay(from, to float64, looped bool) *Handle {
	c.mustBeOpen("RequestPlay")
	from, to = clamp01(from), clamp01(to)

	c.playVersion++
	version := c.playVersion

	// May reenter through IsPlayingChanged.
	c.Stop()
	if version != c.playVersion {
		slog.Debug("Playback: request overtaken", "from", from, "to", to)
		return resolvedHandle(c.dispatcher)
	}

	c.CompleteCurrentPlay()
	if version != c.playVersion {
		return resolvedHandle(c.dispatcher)
	}

	from, to = normalizeRange(from, to)
	p := newPlay(c, from, to, looped)
	c.nowPlaying = p
	slog.Debug("Playback: play requested", "from", from, "to", to, "looped", looped, "loaded", c.loaded)

	if c.loaded {
		p.start()
	}
	return p.handle
}

func (c *Controller) Pause() {
	if c.nowPlaying != nil {
		c.nowPlaying.pause()
	}
}

func (c *Controller) Resume() {
	if c.nowPlaying != nil {
		c.nowPlaying.resume()
	}
}

// Stop returns Progress to the start of the current play and completes it.
func (c *Controller) Stop() {
	if c.nowPlaying != nil {
		c.SetProgress(c.nowPlaying.from)
	}
}

// SetProgress writes Progress directly and completes any current play,
// looping or not.
func (c *Controller) SetProgress(value float64) {
	c.surface.InsertScalar(ProgressProperty, clamp01(value))
	if c.nowPlaying != nil {
		c.nowPlaying.complete()
	}
}

func (c *Controller) Progress() float64 {
	return c.surface.Scalar(ProgressProperty)
}

// CompleteCurrentPlay forces the current play, if any, to complete.
func (c *Controller) CompleteCurrentPlay() {
	if c.nowPlaying != nil {
		c.nowPlaying.complete()
	}
}

// SetPlaybackRate applies rate to the current play and to later plays.
func (c *Controller) SetPlaybackRate(rate float64) {
	c.rate = rate
	if c.nowPlaying != nil {
		c.nowPlaying.setPlaybackRate(rate)
	}
}

func (c *Controller) PlaybackRate() float64 { return c.rate }

// SetAutoPlay changes the autoplay policy. Enabling it while content is
// loaded and nothing plays starts a looping play of the whole timeline.
func (c *Controller) SetAutoPlay(enabled bool) {
	c.autoPlay = enabled
	if enabled && c.loaded && c.nowPlaying == nil && !c.closed {
		c.RequestPlay(0, 1, true)
	}
}

func (c *Controller) AutoPlay() bool { return c.autoPlay }

// OnContentChanged records newly loaded content of duration d. A play
// requested while nothing was loaded starts now; otherwise autoplay may
// start one.
func (c *Controller) OnContentChanged(d time.Duration) {
	c.mustBeOpen("OnContentChanged")
	c.setDuration(d)
	c.setLoaded(true)

	// Observers above may already have started or replaced the play.
	if p := c.nowPlaying; p != nil {
		if p.state == playCreated {
			p.start()
		}
		return
	}
	if c.autoPlay {
		c.RequestPlay(0, 1, true)
	}
}

// OnContentUnloaded stops any play and forgets the content.
func (c *Controller) OnContentUnloaded() {
	if !c.loaded {
		return
	}
	c.Stop()
	c.setDuration(0)
	c.setLoaded(false)
}

// OnVisibilityChanged pauses the current play while hidden, independently
// of user pause.
func (c *Controller) OnVisibilityChanged(visible bool) {
	c.hidden = !visible
	if c.nowPlaying == nil {
		return
	}
	if visible {
		c.nowPlaying.onUnhiding()
	} else {
		c.nowPlaying.onHiding()
	}
}

// Close completes the current play. The Controller must not be used to
// start plays afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.CompleteCurrentPlay()
	c.closed = true
	if c.nowPlaying != nil {
		panic("playback: play still current after close")
	}
}

func (c *Controller) IsPlaying() bool { return c.isPlaying }

// IsPaused reports whether a current play exists and is held by either
// pause source.
func (c *Controller) IsPaused() bool {
	return c.nowPlaying != nil && c.nowPlaying.isPaused()
}

func (c *Controller) IsLoaded() bool { return c.loaded }

func (c *Controller) IsHidden() bool { return c.hidden }

func (c *Controller) Duration() time.Duration { return c.duration }

// Looping reports whether the current play loops.
func (c *Controller) Looping() bool {
	return c.nowPlaying != nil && c.nowPlaying.looped
}

// Range returns the range of the current play.
func (c *Controller) Range() (from, to float64, ok bool) {
	if c.nowPlaying == nil {
		return 0, 0, false
	}
	return c.nowPlaying.from, c.nowPlaying.to, true
}

func (c *Controller) mustBeOpen(op string) {
	if c.closed {
		panic("playback: " + op + " on a closed controller")
	}
}

func (c *Controller) setIsPlaying(v bool) {
	if c.isPlaying == v {
		return
	}
	c.isPlaying = v
	if c.observer.IsPlayingChanged != nil {
		c.observer.IsPlayingChanged(v)
	}
}

func (c *Controller) setDuration(d time.Duration) {
	if c.duration == d {
		return
	}
	c.duration = d
	if c.observer.DurationChanged != nil {
		c.observer.DurationChanged(d)
	}
}

func (c *Controller) setLoaded(v bool) {
	if c.loaded == v {
		return
	}
	c.loaded = v
	if c.observer.LoadedChanged != nil {
		c.observer.LoadedChanged(v)
	}
}
