// Package player is the embeddable animation widget: it loads content from
// an animation.Source, binds the visual's progress to a playback.Controller
// and renders frames for the terminal.
package player

import (
	"log/slog"
	"time"

	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/cache"
	"github.com/ygelfand/animctl/internal/compositor"
	"github.com/ygelfand/animctl/internal/playback"
)

// Events are delivered synchronously on the owner goroutine.
type Events struct {
	IsPlayingChanged   func(playing bool)
	DurationChanged    func(d time.Duration)
	LoadedChanged      func(loaded bool)
	DiagnosticsChanged func(diag animation.Diagnostics)
	FallbackChanged    func(fallenBack bool)
}

type Option func(*Player)

func WithEvents(e Events) Option {
	return func(p *Player) { p.events = e }
}

func WithPlaybackOptions(opts ...playback.Option) Option {
	return func(p *Player) { p.playbackOpts = append(p.playbackOpts, opts...) }
}

// WithFallback sets the text shown instead of frames when content fails
// to load.
func WithFallback(fn func(animation.Diagnostics) string) Option {
	return func(p *Player) { p.fallback = fn }
}

// WithFrameCache caches rendered frames, quantizing progress into buckets.
func WithFrameCache(m *cache.Manager, buckets int) Option {
	return func(p *Player) {
		p.frames = m
		p.buckets = max(buckets, 1)
	}
}

type Player struct {
	comp       *compositor.Compositor
	root       *compositor.PropertySet
	dispatcher playback.Dispatcher
	ctrl       *playback.Controller

	events       Events
	playbackOpts []playback.Option
	fallback     func(animation.Diagnostics) string
	frames       *cache.Manager
	buckets      int

	source            animation.Source
	cancelInvalidated func()
	visual            *animation.Visual
	diagnostics       animation.Diagnostics
	fallenBack        bool
	unloaded          bool
	closed            bool
}

// New creates a Player on comp. All methods must be called from the
// goroutine draining dispatcher.
func New(comp *compositor.Compositor, dispatcher playback.Dispatcher, opts ...Option) *Player {
	p := &Player{
		comp:       comp,
		root:       comp.NewPropertySet(),
		dispatcher: dispatcher,
		fallback:   defaultFallback,
		buckets:    1,
	}
	for _, opt := range opts {
		opt(p)
	}

	observer := playback.Observer{
		IsPlayingChanged: func(v bool) {
			if p.events.IsPlayingChanged != nil {
				p.events.IsPlayingChanged(v)
			}
		},
		DurationChanged: func(d time.Duration) {
			if p.events.DurationChanged != nil {
				p.events.DurationChanged(d)
			}
		},
		LoadedChanged: func(v bool) {
			if p.events.LoadedChanged != nil {
				p.events.LoadedChanged(v)
			}
		},
	}
	ctrlOpts := append([]playback.Option{playback.WithObserver(observer)}, p.playbackOpts...)
	p.ctrl = playback.New(p.root, dispatcher, ctrlOpts...)
	return p
}

func (p *Player) Controller() *playback.Controller { return p.ctrl }

func (p *Player) Source() animation.Source { return p.source }

// Visual returns the loaded visual, or nil.
func (p *Player) Visual() *animation.Visual { return p.visual }

func (p *Player) Diagnostics() animation.Diagnostics { return p.diagnostics }

func (p *Player) IsFallenBack() bool { return p.fallenBack }

// SetSource swaps the content source. Any current play completes first.
func (p *Player) SetSource(src animation.Source) {
	p.ctrl.CompleteCurrentPlay()

	if p.cancelInvalidated != nil {
		p.cancelInvalidated()
		p.cancelInvalidated = nil
	}
	p.source = src
	if dyn, ok := src.(animation.DynamicSource); ok {
		p.cancelInvalidated = dyn.OnInvalidated(func() {
			p.dispatcher.Post(func() {
				if p.source == src && !p.closed {
					slog.Debug("Player: reloading invalidated source", "source", src.String())
					p.UpdateContent()
				}
			})
		})
	}
	p.UpdateContent()
}

// UpdateContent reloads the visual from the current source.
func (p *Player) UpdateContent() {
	p.UnloadContent()
	if p.source == nil {
		return
	}

	visual, diag, err := p.source.CreateVisual(p.comp)
	p.setDiagnostics(diag)

	if visual == nil {
		slog.Warn("Player: failed to load content", "source", p.source.String(), "error", err)
		p.setFallenBack(true)
		// Complete any play requested while loading.
		p.ctrl.CompleteCurrentPlay()
		return
	}

	if visual.IsEmpty() {
		slog.Debug("Player: source has nothing to show", "source", p.source.String())
		_ = visual.Close()
		return
	}
	p.setFallenBack(false)

	p.visual = visual
	visual.Properties().Link(animation.ProgressProperty, p.root, playback.ProgressProperty)
	p.ctrl.OnContentChanged(visual.Duration())
}

// UnloadContent drops the current visual, stopping any play.
func (p *Player) UnloadContent() {
	if p.visual == nil {
		return
	}
	p.ctrl.Stop()

	v := p.visual
	p.visual = nil
	_ = v.Close()

	p.setDiagnostics(animation.Diagnostics{})
	p.ctrl.OnContentUnloaded()
}

// Loaded is called when the hosting element is attached. Content dropped
// by Unloaded is reloaded.
func (p *Player) Loaded() {
	if p.unloaded {
		p.UpdateContent()
		p.unloaded = false
	}
}

// Unloaded is called when the hosting element is detached.
func (p *Player) Unloaded() {
	p.unloaded = true
	p.UnloadContent()
}

func (p *Player) OnHiding()   { p.ctrl.OnVisibilityChanged(false) }
func (p *Player) OnUnhiding() { p.ctrl.OnVisibilityChanged(true) }

func (p *Player) PlayAsync(from, to float64, looped bool) *playback.Handle {
	return p.ctrl.RequestPlay(from, to, looped)
}

// PlaySegment plays a named marker of the loaded document.
func (p *Player) PlaySegment(name string, looped bool) (*playback.Handle, error) {
	if p.visual == nil {
		return nil, ErrNotLoaded
	}
	seg, err := p.visual.Document().Marker(name)
	if err != nil {
		return nil, err
	}
	return p.ctrl.RequestPlay(seg.From, seg.To, looped), nil
}

func (p *Player) Pause()                       { p.ctrl.Pause() }
func (p *Player) Resume()                      { p.ctrl.Resume() }
func (p *Player) Stop()                        { p.ctrl.Stop() }
func (p *Player) SetProgress(v float64)        { p.ctrl.SetProgress(v) }
func (p *Player) SetPlaybackRate(rate float64) { p.ctrl.SetPlaybackRate(rate) }
func (p *Player) SetAutoPlay(enabled bool)     { p.ctrl.SetAutoPlay(enabled) }
func (p *Player) Progress() float64            { return p.ctrl.Progress() }
func (p *Player) IsPlaying() bool              { return p.ctrl.IsPlaying() }
func (p *Player) IsPaused() bool               { return p.ctrl.IsPaused() }
func (p *Player) IsLoaded() bool               { return p.ctrl.IsLoaded() }
func (p *Player) Duration() time.Duration      { return p.ctrl.Duration() }
func (p *Player) PlaybackRate() float64        { return p.ctrl.PlaybackRate() }

// Close tears the player down. The current play completes and the source
// subscription is dropped.
func (p *Player) Close() {
	if p.closed {
		return
	}
	if p.cancelInvalidated != nil {
		p.cancelInvalidated()
		p.cancelInvalidated = nil
	}
	p.ctrl.Close()
	if p.visual != nil {
		_ = p.visual.Close()
		p.visual = nil
	}
	p.closed = true
}

func (p *Player) setDiagnostics(d animation.Diagnostics) {
	p.diagnostics = d
	if p.events.DiagnosticsChanged != nil {
		p.events.DiagnosticsChanged(d)
	}
}

func (p *Player) setFallenBack(v bool) {
	if p.fallenBack == v {
		return
	}
	p.fallenBack = v
	if p.events.FallbackChanged != nil {
		p.events.FallbackChanged(v)
	}
}
