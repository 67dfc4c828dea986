package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	c "github.com/smartystreets/goconvey/convey"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/presenters"
)

const blinkDoc = `
name: blink
canvas: {width: 8, height: 8}
duration: 100ms
layers: [{shape: rect, color: "#ffffff", width: 8, height: 8, opacity: [{t: 0, v: 0}, {t: 1, v: 1}]}]
`

func TestResolveSource(t *testing.T) {
	c.Convey("Given a document on disk", t, func() {
		path := filepath.Join(t.TempDir(), "blink.yaml")
		c.So(os.WriteFile(path, []byte(blinkDoc), 0o644), c.ShouldBeNil)

		c.Convey("Should use existing files directly", func() {
			src, name, err := ResolveSource(context.Background(), path, false)
			c.So(err, c.ShouldBeNil)
			c.So(name, c.ShouldEqual, "blink")
			_, ok := src.(*animation.FileSource)
			c.So(ok, c.ShouldBeTrue)
		})

		c.Convey("Should watch files on request", func() {
			src, _, err := ResolveSource(context.Background(), path, true)
			c.So(err, c.ShouldBeNil)
			_, ok := src.(*animation.WatchedSource)
			c.So(ok, c.ShouldBeTrue)
		})
	})
}

func TestSession(t *testing.T) {
	config.Get().NoCache = true

	c.Convey("Given a session", t, func() {
		doc, err := animation.Parse([]byte(blinkDoc))
		c.So(err, c.ShouldBeNil)

		s := NewSession("blink")
		s.Source = animation.DocumentSource{Doc: doc}
		s.Player.SetSource(s.Source)
		c.So(s.Player.IsLoaded(), c.ShouldBeTrue)

		c.Convey("Run should drive a play to completion", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			h := s.Player.PlayAsync(0, 1, false)
			h.OnDone(cancel)

			frames := 0
			err := s.Run(ctx, func() { frames++ })
			c.So(errors.Is(err, context.Canceled), c.ShouldBeTrue)
			c.So(h.IsDone(), c.ShouldBeTrue)
			c.So(s.Player.Progress(), c.ShouldEqual, 1)
			c.So(s.Player.IsPlaying(), c.ShouldBeFalse)
			c.So(frames, c.ShouldBeGreaterThan, 0)
		})

		c.Convey("Close should complete a looping play", func() {
			h := s.Player.PlayAsync(0, 1, true)
			s.Close()
			c.So(h.IsDone(), c.ShouldBeTrue)
		})
	})

	c.Convey("FrameInterval should follow the frame rate", t, func() {
		cfg := config.Get()
		old := cfg.FrameRate
		defer func() { cfg.FrameRate = old }()

		cfg.FrameRate = 50
		c.So(FrameInterval(), c.ShouldEqual, 20*time.Millisecond)
		cfg.FrameRate = 0
		c.So(FrameInterval(), c.ShouldBeGreaterThan, 0)
	})
}

func TestPrint(t *testing.T) {
	c.Convey("Print should reject unsortable columns", t, func() {
		p := presenters.SimplePresenter{T: "x", H: []string{"A"}}
		err := Print(p, &AnimCtlOptions{Sort: "name"})
		c.So(err, c.ShouldNotBeNil)
		c.So(err.Error(), c.ShouldContainSubstring, "cannot sort")
	})
}
