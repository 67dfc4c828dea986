// Package player hosts the animation player inside the bubbletea program.
// The bubbletea Update goroutine is the player's owner: work posted by the
// compositor or file watchers is drained there on DrainMsg.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/compositor"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/playback"
	animplayer "github.com/ygelfand/animctl/internal/player"
	"github.com/ygelfand/animctl/internal/presenters"
	"github.com/ygelfand/animctl/internal/ui"
)

const (
	MinRate = 0.125
	MaxRate = 8.0
)

type PlayerManager struct {
	comp   *compositor.Compositor
	loop   *playback.Loop
	player *animplayer.Player
	fs     afero.Fs

	entry  library.Entry
	status PlayerStatus
	frame  string
	outbox []tea.Msg

	ticking     bool
	ctx         context.Context
	cancel      context.CancelFunc
	cancelWatch context.CancelFunc
}

// NewPlayerManager creates the manager and starts its compositor.
func NewPlayerManager() *PlayerManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := newPlayerManager(ctx, compositor.New(compositor.SystemClock()), afero.NewOsFs())
	pm.cancel = cancel
	go func() {
		if err := pm.comp.Run(ctx, commands.FrameInterval()); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("PlayerManager: compositor stopped", "error", err)
		}
	}()
	return pm
}

func newPlayerManager(ctx context.Context, comp *compositor.Compositor, fs afero.Fs) *PlayerManager {
	pm := &PlayerManager{
		comp: comp,
		loop: playback.NewLoop(),
		fs:   fs,
		ctx:  ctx,
	}
	events := animplayer.Events{
		IsPlayingChanged: func(bool) { pm.emit(StatusChangedMsg{}) },
		LoadedChanged:    func(bool) { pm.emit(StatusChangedMsg{}) },
		DiagnosticsChanged: func(d animation.Diagnostics) {
			if d.Err != nil {
				pm.emit(fmt.Errorf("failed to load %s: %w", pm.entry.Name, d.Err))
			}
		},
	}
	opts := append(commands.PlayerOptions(""), animplayer.WithEvents(events))
	pm.player = animplayer.New(comp, pm.loop, opts...)
	return pm
}

func (pm *PlayerManager) emit(msg tea.Msg) {
	pm.outbox = append(pm.outbox, msg)
}

// WaitForUpdates blocks until work is posted to the player loop.
func (pm *PlayerManager) WaitForUpdates() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-pm.loop.Ready():
			return DrainMsg{}
		case <-pm.ctx.Done():
			return nil
		}
	}
}

// HandleDrain runs posted work on the calling goroutine.
func (pm *PlayerManager) HandleDrain() tea.Cmd {
	n := pm.loop.Drain()
	slog.Log(context.Background(), config.LevelTrace, "PlayerManager: drained", "count", n)
	return tea.Batch(pm.flush(), pm.WaitForUpdates())
}

// HandleTick renders the next frame and keeps ticking while playing.
func (pm *PlayerManager) HandleTick() tea.Cmd {
	pm.ticking = false
	return pm.flush()
}

func (pm *PlayerManager) tick() tea.Cmd {
	return tea.Tick(commands.FrameInterval(), func(time.Time) tea.Msg { return FrameTickMsg{} })
}

// flush refreshes status and frame, then releases queued messages.
func (pm *PlayerManager) flush() tea.Cmd {
	pm.refresh()
	cmds := make([]tea.Cmd, 0, len(pm.outbox)+1)
	for _, msg := range pm.outbox {
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	pm.outbox = nil
	if pm.status.Playing && !pm.ticking {
		pm.ticking = true
		cmds = append(cmds, pm.tick())
	}
	return tea.Batch(cmds...)
}

func (pm *PlayerManager) refresh() {
	pm.status = PlayerStatus{Name: pm.entry.Name, PlaybackStatus: presenters.Snapshot(pm.player)}
	pm.frame = pm.renderFrame()
}

func (pm *PlayerManager) renderFrame() string {
	if pm.player.IsFallenBack() {
		return pm.player.FallbackText()
	}
	v := pm.player.Visual()
	if v == nil {
		return ""
	}
	w, h := v.Size()
	width := ui.GetLayout().FrameWidth(w / h)
	if width == 0 {
		return ""
	}
	frame, err := pm.player.Frame(width)
	if err != nil {
		slog.Warn("PlayerManager: frame failed", "error", err)
		return ""
	}
	return frame
}

func (pm *PlayerManager) Status() PlayerStatus { return pm.status }

// Frame returns the last rendered frame.
func (pm *PlayerManager) Frame() string { return pm.frame }

func (pm *PlayerManager) Entry() library.Entry { return pm.entry }

// Document returns the loaded document, or nil.
func (pm *PlayerManager) Document() *animation.Document {
	if v := pm.player.Visual(); v != nil {
		return v.Document()
	}
	return nil
}

// Load swaps the player to entry. Files are watched when watch_files is set.
func (pm *PlayerManager) Load(entry library.Entry) tea.Cmd {
	if pm.cancelWatch != nil {
		pm.cancelWatch()
		pm.cancelWatch = nil
	}
	pm.entry = entry

	cfg := config.Get()
	var src animation.Source
	if cfg.WatchFiles {
		ws := animation.NewWatchedSource(pm.fs, entry.Path)
		ctx, cancel := context.WithCancel(pm.ctx)
		pm.cancelWatch = cancel
		go func() {
			if err := ws.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("PlayerManager: watcher stopped", "path", entry.Path, "error", err)
			}
		}()
		src = ws
	} else {
		src = animation.NewFileSource(pm.fs, entry.Path)
	}

	slog.Debug("PlayerManager: loading", "name", entry.Name, "path", entry.Path, "watch", cfg.WatchFiles)
	pm.player.SetSource(src)
	pm.player.SetPlaybackRate(cfg.RateFor(entry.Name))
	if loop := cfg.Entry(entry.Name).Loop; loop != nil && *loop && pm.player.IsLoaded() && !pm.player.IsPlaying() {
		pm.Play(0, 1, true)
	}
	return pm.flush()
}

// Play requests a play of [from, to].
func (pm *PlayerManager) Play(from, to float64, looped bool) tea.Cmd {
	pm.watch(pm.player.PlayAsync(from, to, looped), "", looped)
	return pm.flush()
}

// PlaySegment plays a named marker of the loaded document.
func (pm *PlayerManager) PlaySegment(name string, looped bool) tea.Cmd {
	h, err := pm.player.PlaySegment(name, looped)
	if err != nil {
		return func() tea.Msg { return err }
	}
	pm.watch(h, name, looped)
	return pm.flush()
}

func (pm *PlayerManager) watch(h *playback.Handle, segment string, looped bool) {
	if looped {
		return
	}
	name := pm.entry.Name
	h.OnDone(func() {
		pm.emit(PlayCompletedMsg{Name: name, Segment: segment})
	})
}

func (pm *PlayerManager) TogglePause() tea.Cmd {
	if pm.player.IsPaused() {
		pm.player.Resume()
	} else {
		pm.player.Pause()
	}
	return pm.flush()
}

func (pm *PlayerManager) Stop() tea.Cmd {
	pm.player.Stop()
	return pm.flush()
}

// Seek moves progress by delta. Any current play completes.
func (pm *PlayerManager) Seek(delta float64) tea.Cmd {
	pm.player.SetProgress(lo.Clamp(pm.player.Progress()+delta, 0, 1))
	return pm.flush()
}

// ScaleRate multiplies the playback rate, keeping its sign.
func (pm *PlayerManager) ScaleRate(factor float64) tea.Cmd {
	rate := pm.player.PlaybackRate()
	sign := 1.0
	if rate < 0 {
		sign = -1
	}
	pm.player.SetPlaybackRate(sign * lo.Clamp(rate*sign*factor, MinRate, MaxRate))
	return pm.flush()
}

// Reverse flips the playback direction.
func (pm *PlayerManager) Reverse() tea.Cmd {
	pm.player.SetPlaybackRate(-pm.player.PlaybackRate())
	return pm.flush()
}

// SetVisible maps terminal focus to player visibility.
func (pm *PlayerManager) SetVisible(visible bool) tea.Cmd {
	if visible {
		pm.player.OnUnhiding()
	} else {
		pm.player.OnHiding()
	}
	return pm.flush()
}

// Close stops playback and the compositor.
func (pm *PlayerManager) Close() {
	if pm.cancelWatch != nil {
		pm.cancelWatch()
	}
	pm.player.Close()
	pm.loop.Drain()
	if pm.cancel != nil {
		pm.cancel()
	}
}
