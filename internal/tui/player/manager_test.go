package player

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/compositor"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/ui"
)

const spinDoc = `
name: spin
canvas: {width: 16, height: 8}
duration: 1s
markers:
  intro: {from: 0, to: 0.25}
layers:
  - shape: rect
    color: "#00ccff"
    x: 4
    y: 2
    width: 8
    height: 4
    rotation: [{t: 0, v: 0}, {t: 1, v: 360}]
`

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayerManager(t *testing.T) {
	cfg := config.Get()
	cfg.NoCache = true
	cfg.WatchFiles = false
	ui.GetLayout().Update(130, 43, true)

	Convey("Given a manager on a manual clock", t, func() {
		fs := afero.NewMemMapFs()
		So(afero.WriteFile(fs, "/lib/spin.yaml", []byte(spinDoc), 0o644), ShouldBeNil)
		So(afero.WriteFile(fs, "/lib/bad.yaml", []byte("name: [oops"), 0o644), ShouldBeNil)

		clock := compositor.NewManualClock(time.Unix(100, 0))
		comp := compositor.New(clock)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pm := newPlayerManager(ctx, comp, fs)

		advance := func(d time.Duration) {
			clock.Advance(d)
			comp.Tick()
			pm.loop.Drain()
		}

		Convey("Keys should be ignored before anything is loaded", func() {
			_, handled := pm.HandleKey(keyMsg("p"))
			So(handled, ShouldBeFalse)
		})

		Convey("When an entry is loaded", func() {
			pm.Load(library.Entry{Summary: animation.Summary{Name: "spin", Path: "/lib/spin.yaml"}})
			status := pm.Status()
			So(status.Name, ShouldEqual, "spin")
			So(status.Loaded, ShouldBeTrue)
			So(status.Active(), ShouldBeTrue)
			So(pm.Frame(), ShouldNotBeEmpty)
			So(pm.Document().Name, ShouldEqual, "spin")

			Convey("p should play once and report completion", func() {
				cmd, handled := pm.HandleKey(keyMsg("p"))
				So(handled, ShouldBeTrue)
				So(cmd, ShouldNotBeNil)
				So(pm.Status().Playing, ShouldBeTrue)
				So(pm.ticking, ShouldBeTrue)

				advance(2 * time.Second)
				var completed []PlayCompletedMsg
				for _, msg := range pm.outbox {
					if c, ok := msg.(PlayCompletedMsg); ok {
						completed = append(completed, c)
					}
				}
				So(completed, ShouldResemble, []PlayCompletedMsg{{Name: "spin"}})

				pm.HandleTick()
				So(pm.Status().Playing, ShouldBeFalse)
				So(pm.Status().Progress, ShouldEqual, 1)
				So(pm.outbox, ShouldBeEmpty)
				So(pm.ticking, ShouldBeFalse)
			})

			Convey("space should pause and resume", func() {
				pm.Play(0, 1, true)
				pm.HandleKey(keyMsg(" "))
				So(pm.Status().Paused, ShouldBeTrue)
				pm.HandleKey(keyMsg(" "))
				So(pm.Status().Paused, ShouldBeFalse)
			})

			Convey("Seeking should clamp and end the play", func() {
				pm.Play(0, 1, true)
				pm.Seek(0.5)
				pm.loop.Drain()
				So(pm.Status().Progress, ShouldAlmostEqual, 0.5, 0.01)
				So(pm.player.IsPlaying(), ShouldBeFalse)

				pm.Seek(2)
				So(pm.Status().Progress, ShouldEqual, 1)
			})

			Convey("Rate keys should stay in bounds and keep direction", func() {
				for range 5 {
					pm.HandleKey(keyMsg("]"))
				}
				So(pm.Status().Rate, ShouldEqual, MaxRate)
				pm.HandleKey(keyMsg("R"))
				So(pm.Status().Rate, ShouldEqual, -MaxRate)
				pm.HandleKey(keyMsg("["))
				So(pm.Status().Rate, ShouldEqual, -MaxRate/2)
			})

			Convey("Segment requests should play the marker", func() {
				pm.HandleRequest(ui.RequestPlayMsg{Segment: "intro"})
				So(pm.Status().Playing, ShouldBeTrue)
				advance(time.Second)
				So(pm.player.Progress(), ShouldAlmostEqual, 0.25, 0.001)
			})

			Convey("Unknown segments should return an error", func() {
				cmd := pm.PlaySegment("nope", false)
				_, isErr := cmd().(error)
				So(isErr, ShouldBeTrue)
			})
		})

		Convey("A broken entry should fall back and queue an error", func() {
			pm.loop.Drain()
			pm.outbox = nil
			pm.player.SetSource(animation.NewFileSource(fs, "/lib/bad.yaml"))
			pm.entry = library.Entry{Summary: animation.Summary{Name: "bad"}}

			var errs []error
			for _, msg := range pm.outbox {
				if err, ok := msg.(error); ok {
					errs = append(errs, err)
				}
			}
			So(errs, ShouldNotBeEmpty)

			pm.HandleTick()
			So(pm.Status().FallenBack, ShouldBeTrue)
			So(pm.Status().Active(), ShouldBeTrue)
			So(pm.Frame(), ShouldNotBeEmpty)
		})

		Convey("Close should cancel the manager context", func() {
			pm.cancel = cancel
			pm.Close()
			So(ctx.Err(), ShouldNotBeNil)
		})
	})
}
