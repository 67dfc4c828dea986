package playback

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ygelfand/animctl/internal/compositor"
)

type harness struct {
	clock *compositor.ManualClock
	comp  *compositor.Compositor
	set   *compositor.PropertySet
	loop  *Loop
	ctrl  *Controller

	playing []bool
}

func newHarness(opts ...Option) *harness {
	h := &harness{clock: compositor.NewManualClock(time.Unix(5000, 0))}
	h.comp = compositor.New(h.clock)
	h.set = h.comp.NewPropertySet()
	h.loop = NewLoop()
	opts = append([]Option{WithObserver(Observer{
		IsPlayingChanged: func(v bool) { h.playing = append(h.playing, v) },
	})}, opts...)
	h.ctrl = New(h.set, h.loop, opts...)
	return h
}

// advance moves time forward, lets the compositor retire animations and
// runs whatever completion work it posted.
func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.comp.Tick()
	h.loop.Drain()
}

func (h *harness) everPlayed() bool {
	for _, v := range h.playing {
		if v {
			return true
		}
	}
	return false
}

func TestRequestPlay(t *testing.T) {
	Convey("Given a controller with one second of content", t, func() {
		h := newHarness()
		h.ctrl.OnContentChanged(time.Second)

		Convey("A play should drive progress and complete naturally", func() {
			handle := h.ctrl.RequestPlay(0, 1, false)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)

			h.advance(250 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.25)
			So(handle.IsDone(), ShouldBeFalse)

			h.advance(time.Second)
			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 1)
			So(h.playing, ShouldResemble, []bool{true, false})
		})

		Convey("A handle should post OnDone callbacks to the dispatcher", func() {
			handle := h.ctrl.RequestPlay(0, 0.5, false)
			called := 0
			handle.OnDone(func() { called++ })

			h.advance(time.Second)
			So(called, ShouldEqual, 1)

			handle.OnDone(func() { called++ })
			So(called, ShouldEqual, 1)
			h.loop.Drain()
			So(called, ShouldEqual, 2)
		})

		Convey("Wait should return once the play completes", func() {
			handle := h.ctrl.RequestPlay(0, 1, true)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(handle.Wait(ctx), ShouldEqual, context.Canceled)
			So(handle.IsDone(), ShouldBeFalse)

			h.ctrl.Stop()
			So(handle.Wait(context.Background()), ShouldBeNil)
		})

		Convey("[x→0] should play like [x→1]", func() {
			h.ctrl.RequestPlay(0.4, 0, false)
			from, to, ok := h.ctrl.Range()
			So(ok, ShouldBeTrue)
			So(from, ShouldEqual, 0.4)
			So(to, ShouldEqual, 1)

			h.advance(300 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.7, 1e-9)
			h.advance(300 * time.Millisecond)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 1)
		})

		Convey("[1→y] should play like [0→y]", func() {
			h.ctrl.RequestPlay(1, 0.3, false)
			from, to, _ := h.ctrl.Range()
			So(from, ShouldEqual, 0)
			So(to, ShouldEqual, 0.3)

			h.advance(100 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.1, 1e-9)
		})

		Convey("Inputs should be clamped", func() {
			h.ctrl.RequestPlay(-2, 0.5, false)
			from, to, _ := h.ctrl.Range()
			So(from, ShouldEqual, 0)
			So(to, ShouldEqual, 0.5)
		})

		Convey("A wrapping play should go through the end and restart at 0", func() {
			handle := h.ctrl.RequestPlay(0.8, 0.2, false)
			h.advance(100 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.9, 1e-6)
			h.advance(200 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.1, 1e-6)
			h.advance(100 * time.Millisecond)
			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.Progress(), ShouldEqual, 0.2)
		})

		Convey("A second request should supersede the first", func() {
			first := h.ctrl.RequestPlay(0, 1, false)
			second := h.ctrl.RequestPlay(0, 0.5, false)

			So(first.IsDone(), ShouldBeTrue)
			So(second.IsDone(), ShouldBeFalse)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)

			h.advance(500 * time.Millisecond)
			So(second.IsDone(), ShouldBeTrue)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 0.5)
		})

		Convey("A negative rate should play from the end of the range", func() {
			h.ctrl.SetPlaybackRate(-1)
			handle := h.ctrl.RequestPlay(0, 1, false)
			So(h.ctrl.Progress(), ShouldEqual, 1)

			h.advance(250 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.75)

			h.advance(time.Second)
			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.Progress(), ShouldEqual, 0)
		})

		Convey("A negative rate looping play should start at to", func() {
			h.ctrl.SetPlaybackRate(-1)
			handle := h.ctrl.RequestPlay(0.2, 0.8, true)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.8)

			h.advance(150 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.65)

			// Back at from, the next pass starts again at to.
			h.advance(450 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.8)
			So(handle.IsDone(), ShouldBeFalse)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
		})

		Convey("A rate change should reach the running play", func() {
			h.ctrl.RequestPlay(0, 1, false)
			h.advance(100 * time.Millisecond)
			h.ctrl.SetPlaybackRate(2)
			h.advance(100 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.3, 1e-9)
			So(h.ctrl.PlaybackRate(), ShouldEqual, 2)
		})
	})
}

func TestProgressWrites(t *testing.T) {
	Convey("Given a controller with one second of content", t, func() {
		h := newHarness()
		h.ctrl.OnContentChanged(time.Second)

		Convey("SetProgress should end a looping play", func() {
			handle := h.ctrl.RequestPlay(0, 1, true)
			h.advance(2300 * time.Millisecond)
			So(handle.IsDone(), ShouldBeFalse)

			h.ctrl.SetProgress(0.7)
			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 0.7)

			h.advance(time.Second)
			So(h.ctrl.Progress(), ShouldEqual, 0.7)
		})

		Convey("SetProgress should clamp", func() {
			h.ctrl.SetProgress(4)
			So(h.ctrl.Progress(), ShouldEqual, 1)
		})

		Convey("Stop should return to the start of the play", func() {
			handle := h.ctrl.RequestPlay(0.2, 0.9, false)
			h.advance(300 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldBeGreaterThan, 0.2)

			h.ctrl.Stop()
			So(h.ctrl.Progress(), ShouldEqual, 0.2)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(handle.IsDone(), ShouldBeTrue)
		})

		Convey("Stop without a play should leave progress alone", func() {
			h.ctrl.SetProgress(0.6)
			h.ctrl.Stop()
			So(h.ctrl.Progress(), ShouldEqual, 0.6)
		})

		Convey("CompleteCurrentPlay should be idempotent", func() {
			handle := h.ctrl.RequestPlay(0, 1, true)
			h.advance(400 * time.Millisecond)
			h.ctrl.CompleteCurrentPlay()
			h.ctrl.CompleteCurrentPlay()
			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.playing, ShouldResemble, []bool{true, false})

			h.advance(time.Second)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.4, 1e-9)
		})
	})
}

func TestMinPlayDuration(t *testing.T) {
	Convey("A range too short to animate", t, func() {
		Convey("Should complete at once without playing", func() {
			h := newHarness()
			h.ctrl.OnContentChanged(time.Minute)
			handle := h.ctrl.RequestPlay(0.50001, 0.50002, false)

			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.everPlayed(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 0.50001)
		})

		Convey("Should honour a configured threshold", func() {
			h := newHarness(WithMinPlayDuration(50 * time.Millisecond))
			h.ctrl.OnContentChanged(time.Hour)
			handle := h.ctrl.RequestPlay(0.50001, 0.50002, false)

			So(handle.IsDone(), ShouldBeTrue)
			So(h.everPlayed(), ShouldBeFalse)
		})

		Convey("Should apply to deferred plays once content arrives", func() {
			h := newHarness()
			handle := h.ctrl.RequestPlay(0.2, 0.2, true)
			So(handle.IsDone(), ShouldBeFalse)

			h.ctrl.OnContentChanged(time.Second)
			So(handle.IsDone(), ShouldBeTrue)
			So(h.everPlayed(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 0.2)
		})
	})
}

func TestPauseSources(t *testing.T) {
	Convey("Given a running play", t, func() {
		h := newHarness()
		h.ctrl.OnContentChanged(time.Second)
		h.ctrl.RequestPlay(0, 1, false)

		Convey("User pause and visibility pause should be independent", func() {
			h.ctrl.Pause()
			h.ctrl.OnVisibilityChanged(false)
			h.advance(200 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldEqual, 0)

			h.ctrl.Resume()
			So(h.ctrl.IsPaused(), ShouldBeTrue)
			h.advance(200 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldEqual, 0)

			h.ctrl.OnVisibilityChanged(true)
			So(h.ctrl.IsPaused(), ShouldBeFalse)
			h.advance(250 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.25)
		})

		Convey("Unhiding should not override a user pause", func() {
			h.ctrl.OnVisibilityChanged(false)
			h.ctrl.Pause()
			h.ctrl.OnVisibilityChanged(true)
			h.advance(300 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldEqual, 0)

			h.ctrl.Resume()
			h.advance(300 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.3, 1e-9)
		})

		Convey("Repeated hides should need a single unhide", func() {
			h.ctrl.OnVisibilityChanged(false)
			h.ctrl.OnVisibilityChanged(false)
			h.ctrl.OnVisibilityChanged(true)
			h.advance(100 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.1, 1e-9)
		})
	})

	Convey("Pause state set before start", t, func() {
		h := newHarness()

		Convey("A play requested while hidden should wait for visibility", func() {
			h.ctrl.OnVisibilityChanged(false)
			h.ctrl.OnContentChanged(time.Second)
			h.ctrl.RequestPlay(0, 1, false)
			h.advance(500 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldEqual, 0)

			h.ctrl.OnVisibilityChanged(true)
			h.advance(500 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldAlmostEqual, 0.5)
		})

		Convey("A deferred play paused by the user should start paused", func() {
			h.ctrl.RequestPlay(0, 1, false)
			h.ctrl.Pause()
			h.ctrl.OnContentChanged(time.Second)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
			h.advance(500 * time.Millisecond)
			So(h.ctrl.Progress(), ShouldEqual, 0)
		})

		Convey("Pause and Resume without a play should do nothing", func() {
			h.ctrl.Pause()
			h.ctrl.Resume()
			h.ctrl.OnVisibilityChanged(false)
			So(h.ctrl.IsPaused(), ShouldBeFalse)
			So(h.ctrl.IsHidden(), ShouldBeTrue)
		})
	})
}

func TestContentLifecycle(t *testing.T) {
	Convey("Given a controller without content", t, func() {
		h := newHarness()

		Convey("A play should wait for content", func() {
			handle := h.ctrl.RequestPlay(0, 1, false)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			h.advance(time.Second)
			So(handle.IsDone(), ShouldBeFalse)

			h.ctrl.OnContentChanged(time.Second)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
			So(h.ctrl.Duration(), ShouldEqual, time.Second)
			So(h.ctrl.IsLoaded(), ShouldBeTrue)
		})

		Convey("Autoplay should start a looping play on load", func() {
			h.ctrl.SetAutoPlay(true)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)

			h.ctrl.OnContentChanged(time.Second)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
			So(h.ctrl.Looping(), ShouldBeTrue)
			from, to, _ := h.ctrl.Range()
			So(from, ShouldEqual, 0)
			So(to, ShouldEqual, 1)
		})

		Convey("Enabling autoplay on loaded idle content should start playing", func() {
			h.ctrl.OnContentChanged(time.Second)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			h.ctrl.SetAutoPlay(true)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
			So(h.ctrl.Looping(), ShouldBeTrue)
		})

		Convey("Unloading should stop the play and forget the content", func() {
			h.ctrl.OnContentChanged(time.Second)
			handle := h.ctrl.RequestPlay(0.1, 0.9, true)
			h.advance(200 * time.Millisecond)

			h.ctrl.OnContentUnloaded()
			So(handle.IsDone(), ShouldBeTrue)
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			So(h.ctrl.Progress(), ShouldEqual, 0.1)
			So(h.ctrl.Duration(), ShouldEqual, 0)
			So(h.ctrl.IsLoaded(), ShouldBeFalse)
		})

		Convey("Close should complete the current play", func() {
			handle := h.ctrl.RequestPlay(0, 1, false)
			h.ctrl.Close()
			So(handle.IsDone(), ShouldBeTrue)
			So(func() { h.ctrl.RequestPlay(0, 1, false) }, ShouldPanic)
		})
	})
}

func TestReentrancy(t *testing.T) {
	Convey("Observers that request plays", t, func() {
		Convey("A request made while content is being marked loaded should be the only current play", func() {
			var h *harness
			var inner *Handle
			h = newHarness(WithAutoPlay(true), WithObserver(Observer{
				IsPlayingChanged: func(v bool) { h.playing = append(h.playing, v) },
				LoadedChanged: func(loaded bool) {
					if loaded {
						inner = h.ctrl.RequestPlay(0.2, 0.8, false)
					}
				},
			}))
			outer := h.ctrl.RequestPlay(0, 1, false)

			h.ctrl.OnContentChanged(time.Second)
			So(outer.IsDone(), ShouldBeTrue)
			So(inner.IsDone(), ShouldBeFalse)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
			So(h.ctrl.Looping(), ShouldBeFalse)

			from, to, _ := h.ctrl.Range()
			So(from, ShouldEqual, 0.2)
			So(to, ShouldEqual, 0.8)
			So(h.playing, ShouldResemble, []bool{true})

			h.advance(600 * time.Millisecond)
			So(inner.IsDone(), ShouldBeTrue)
			So(h.ctrl.Progress(), ShouldEqual, 0.8)
		})

		Convey("A request overtaken while stopping should abandon itself", func() {
			var h *harness
			var inner *Handle
			fired := false
			h = newHarness(WithObserver(Observer{
				IsPlayingChanged: func(v bool) {
					if !v && !fired {
						fired = true
						inner = h.ctrl.RequestPlay(0.1, 0.3, false)
					}
				},
			}))
			h.ctrl.OnContentChanged(time.Second)
			first := h.ctrl.RequestPlay(0, 1, false)

			outer := h.ctrl.RequestPlay(0.5, 0.6, false)
			So(first.IsDone(), ShouldBeTrue)
			So(outer.IsDone(), ShouldBeTrue)
			So(inner.IsDone(), ShouldBeFalse)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)

			from, to, _ := h.ctrl.Range()
			So(from, ShouldEqual, 0.1)
			So(to, ShouldEqual, 0.3)
		})

		Convey("Autoplay triggered by a content swap should not stack plays", func() {
			var h *harness
			swaps := 0
			h = newHarness(WithAutoPlay(true), WithObserver(Observer{
				DurationChanged: func(d time.Duration) {
					if d > 0 && swaps == 0 {
						swaps++
						h.ctrl.OnContentChanged(2 * time.Second)
					}
				},
			}))

			h.ctrl.OnContentChanged(time.Second)
			So(h.ctrl.IsPlaying(), ShouldBeTrue)
			So(h.ctrl.Duration(), ShouldEqual, 2*time.Second)
			So(h.comp.Animating(), ShouldBeTrue)

			h.ctrl.Stop()
			So(h.ctrl.IsPlaying(), ShouldBeFalse)
			h.advance(time.Millisecond)
			So(h.comp.Animating(), ShouldBeFalse)
		})
	})
}
