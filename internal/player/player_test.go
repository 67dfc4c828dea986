package player

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/cache"
	"github.com/ygelfand/animctl/internal/compositor"
	"github.com/ygelfand/animctl/internal/playback"
)

const pulseDoc = `
name: pulse
canvas: {width: 40, height: 20}
duration: 1s
markers:
  grow: {from: 0, to: 0.5}
layers:
  - shape: circle
    color: "#ffcc00"
    x: 20
    y: 10
    radius: [{t: 0, v: 2}, {t: 0.5, v: 9}, {t: 1, v: 2}]
`

type failingSource struct{}

func (failingSource) CreateVisual(*compositor.Compositor) (*animation.Visual, animation.Diagnostics, error) {
	err := errors.New("boom")
	return nil, animation.Diagnostics{Source: "failing", Err: err}, err
}

func (failingSource) String() string { return "failing" }

type dynamicSource struct {
	doc *animation.Document

	mu       sync.Mutex
	handlers map[int]func()
	next     int
	loads    int
}

func newDynamicSource(doc *animation.Document) *dynamicSource {
	return &dynamicSource{doc: doc, handlers: make(map[int]func())}
}

func (s *dynamicSource) CreateVisual(comp *compositor.Compositor) (*animation.Visual, animation.Diagnostics, error) {
	s.loads++
	return animation.DocumentSource{Doc: s.doc}.CreateVisual(comp)
}

func (s *dynamicSource) String() string { return "dynamic" }

func (s *dynamicSource) OnInvalidated(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.handlers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

func (s *dynamicSource) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

func (s *dynamicSource) invalidate() {
	s.mu.Lock()
	var fns []func()
	for _, fn := range s.handlers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type fixture struct {
	clock  *compositor.ManualClock
	comp   *compositor.Compositor
	loop   *playback.Loop
	player *Player
	doc    *animation.Document
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{clock: compositor.NewManualClock(time.Unix(100, 0))}
	f.comp = compositor.New(f.clock)
	f.loop = playback.NewLoop()
	f.player = New(f.comp, f.loop, opts...)
	doc, err := animation.Parse([]byte(pulseDoc))
	if err != nil {
		panic(err)
	}
	f.doc = doc
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.comp.Tick()
	f.loop.Drain()
}

func TestPlayerContent(t *testing.T) {
	Convey("Given a player", t, func() {
		f := newFixture()
		p := f.player

		Convey("SetSource should load the visual and bind its progress", func() {
			p.SetSource(animation.DocumentSource{Doc: f.doc})
			So(p.IsLoaded(), ShouldBeTrue)
			So(p.Duration(), ShouldEqual, time.Second)
			So(p.Diagnostics().Layers, ShouldEqual, 1)

			p.PlayAsync(0, 1, false)
			f.advance(500 * time.Millisecond)
			So(p.Visual().Progress(), ShouldAlmostEqual, 0.5)
			So(p.Progress(), ShouldAlmostEqual, 0.5)
		})

		Convey("A failing source should fall back and complete pending plays", func() {
			handle := p.PlayAsync(0, 1, false)
			p.SetSource(failingSource{})

			So(handle.IsDone(), ShouldBeTrue)
			So(p.IsFallenBack(), ShouldBeTrue)
			So(p.IsLoaded(), ShouldBeFalse)
			So(p.FallbackText(), ShouldContainSubstring, "boom")

			frame, err := p.Frame(20)
			So(err, ShouldBeNil)
			So(frame, ShouldContainSubstring, "boom")

			p.SetSource(animation.DocumentSource{Doc: f.doc})
			So(p.IsFallenBack(), ShouldBeFalse)
			So(p.IsLoaded(), ShouldBeTrue)
		})

		Convey("Empty content should load nothing", func() {
			empty, err := animation.Parse([]byte("duration: 1s\nlayers: [{shape: circle}]\n"))
			So(err, ShouldBeNil)
			p.SetSource(animation.DocumentSource{Doc: empty})
			So(p.IsLoaded(), ShouldBeFalse)
			So(p.IsFallenBack(), ShouldBeFalse)
			So(p.Visual(), ShouldBeNil)
		})

		Convey("Unloaded should drop content until Loaded", func() {
			p.SetSource(animation.DocumentSource{Doc: f.doc})
			handle := p.PlayAsync(0.3, 1, true)
			f.advance(100 * time.Millisecond)

			p.Unloaded()
			So(handle.IsDone(), ShouldBeTrue)
			So(p.IsLoaded(), ShouldBeFalse)
			So(p.Progress(), ShouldEqual, 0.3)

			p.Loaded()
			So(p.IsLoaded(), ShouldBeTrue)
			So(p.Visual(), ShouldNotBeNil)
		})

		Convey("Loaded without a prior unload should not reload", func() {
			src := newDynamicSource(f.doc)
			p.SetSource(src)
			p.Loaded()
			So(src.loads, ShouldEqual, 1)
		})

		Convey("PlaySegment should play a marker", func() {
			_, err := p.PlaySegment("grow", false)
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)

			p.SetSource(animation.DocumentSource{Doc: f.doc})
			handle, err := p.PlaySegment("grow", false)
			So(err, ShouldBeNil)
			f.advance(500 * time.Millisecond)
			So(handle.IsDone(), ShouldBeTrue)
			So(p.Progress(), ShouldEqual, 0.5)

			_, err = p.PlaySegment("shrink", false)
			So(errors.Is(err, animation.ErrNoSuchMarker), ShouldBeTrue)
		})

		Convey("Hiding should pause the current play", func() {
			p.SetSource(animation.DocumentSource{Doc: f.doc})
			p.PlayAsync(0, 1, false)
			p.OnHiding()
			f.advance(300 * time.Millisecond)
			So(p.Progress(), ShouldEqual, 0)
			So(p.IsPaused(), ShouldBeTrue)

			p.OnUnhiding()
			f.advance(300 * time.Millisecond)
			So(p.Progress(), ShouldAlmostEqual, 0.3, 1e-9)
		})

		Convey("Close should complete the current play", func() {
			p.SetSource(animation.DocumentSource{Doc: f.doc})
			handle := p.PlayAsync(0, 1, true)
			p.Close()
			So(handle.IsDone(), ShouldBeTrue)
			So(p.IsPlaying(), ShouldBeFalse)
		})
	})
}

func TestPlayerDynamicSource(t *testing.T) {
	Convey("Given a player on a dynamic source", t, func() {
		var loadedEvents []bool
		f := newFixture(
			WithPlaybackOptions(playback.WithAutoPlay(true)),
			WithEvents(Events{LoadedChanged: func(v bool) { loadedEvents = append(loadedEvents, v) }}),
		)
		p := f.player
		src := newDynamicSource(f.doc)
		p.SetSource(src)

		Convey("Autoplay should start a looping play", func() {
			So(p.IsPlaying(), ShouldBeTrue)
			So(p.Controller().Looping(), ShouldBeTrue)
		})

		Convey("Invalidation should reload on the owner goroutine", func() {
			src.invalidate()
			So(src.loads, ShouldEqual, 1)

			f.loop.Drain()
			So(src.loads, ShouldEqual, 2)
			So(loadedEvents, ShouldResemble, []bool{true, false, true})
		})

		Convey("A content swap during a play should leave a single current play", func() {
			handle := p.PlayAsync(0, 0.5, false)
			So(p.Controller().Looping(), ShouldBeFalse)

			src.invalidate()
			f.loop.Drain()

			So(handle.IsDone(), ShouldBeTrue)
			So(p.IsPlaying(), ShouldBeTrue)
			So(p.Controller().Looping(), ShouldBeTrue)

			f.advance(2 * time.Second)
			So(p.IsPlaying(), ShouldBeTrue)
		})

		Convey("Swapping sources should drop the old subscription", func() {
			So(src.subscribers(), ShouldEqual, 1)
			other := newDynamicSource(f.doc)
			p.SetSource(other)
			So(src.subscribers(), ShouldEqual, 0)
			So(other.subscribers(), ShouldEqual, 1)

			src.invalidate()
			f.loop.Drain()
			So(src.loads, ShouldEqual, 1)
		})
	})
}

func TestPlayerFrames(t *testing.T) {
	Convey("Given a loaded player", t, func() {
		m, err := cache.New(t.TempDir())
		So(err, ShouldBeNil)
		f := newFixture(WithFrameCache(m, 10))
		p := f.player

		Convey("Frame should fail without content", func() {
			_, err := p.Frame(20)
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
		})

		Convey("FrameSize should keep the aspect ratio in whole cells", func() {
			p.SetSource(animation.DocumentSource{Doc: f.doc})
			w, h := FrameSize(p.Visual(), 20)
			So(w, ShouldEqual, 20)
			So(h, ShouldEqual, 10)
		})

		Convey("Frames should render and be cached per progress bucket", func() {
			p.SetSource(animation.DocumentSource{Doc: f.doc})
			out, err := p.Frame(20)
			So(err, ShouldBeNil)
			So(strings.TrimSpace(out), ShouldNotBeEmpty)
			So(m.Count(), ShouldEqual, 1)

			again, err := p.FrameAt(20, 0.01)
			So(err, ShouldBeNil)
			So(again, ShouldEqual, out)
			So(m.Count(), ShouldEqual, 1)

			_, err = p.FrameAt(20, 0.5)
			So(err, ShouldBeNil)
			So(m.Count(), ShouldEqual, 2)
		})
	})
}
