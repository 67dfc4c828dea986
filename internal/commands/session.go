package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/compositor"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/playback"
	"github.com/ygelfand/animctl/internal/player"
)

// Session hosts a player outside the TUI. The goroutine calling Run is the
// player's owner.
type Session struct {
	Name   string
	Source animation.Source
	Comp   *compositor.Compositor
	Loop   *playback.Loop
	Player *player.Player
}

func NewSession(name string, extra ...player.Option) *Session {
	comp := compositor.New(compositor.SystemClock())
	loop := playback.NewLoop()
	opts := append(PlayerOptions(name), extra...)
	return &Session{
		Name:   name,
		Comp:   comp,
		Loop:   loop,
		Player: player.New(comp, loop, opts...),
	}
}

// FrameInterval returns the compositor tick interval for the configured
// frame rate.
func FrameInterval() time.Duration {
	fps := config.Get().FrameRate
	if fps <= 0 {
		return compositor.DefaultFrameInterval
	}
	return time.Second / time.Duration(fps)
}

// Run ticks the compositor and drains the loop until ctx is done. A
// watched source is watched for the same span. onFrame, if set, runs on
// the owner goroutine once per frame.
func (s *Session) Run(ctx context.Context, onFrame func()) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interval := FrameInterval()
	go func() {
		if err := s.Comp.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Compositor stopped", "error", err)
		}
	}()

	if ws, ok := s.Source.(*animation.WatchedSource); ok {
		go func() {
			if err := ws.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("Watcher stopped", "source", ws.String(), "error", err)
			}
		}()
	}

	if onFrame != nil {
		go func() {
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					s.Loop.Post(onFrame)
				}
			}
		}()
	}

	return s.Loop.Run(ctx)
}

// Close completes any play and releases the player.
func (s *Session) Close() {
	s.Player.Close()
	s.Loop.Drain()
}
