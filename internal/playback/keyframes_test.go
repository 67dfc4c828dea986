package playback

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ygelfand/animctl/internal/compositor"
)

func TestRangeMath(t *testing.T) {
	Convey("Play duration", t, func() {
		content := 10 * time.Second

		Convey("Should cover to-from of the content when not wrapping", func() {
			for _, r := range [][2]float64{{0, 1}, {0.25, 0.75}, {0.3, 0.3}, {0, 0.1}} {
				want := time.Duration(float64(content) * (r[1] - r[0]))
				So(playDuration(r[0], r[1], content), ShouldEqual, want)
			}
		})

		Convey("Should cover (1-from)+to of the content when wrapping", func() {
			So(playDuration(0.8, 0.2, content), ShouldEqual, time.Duration(float64(content)*((1-0.8)+0.2)))
			So(playDuration(0.5, 0.0, content), ShouldEqual, 5*time.Second)
		})

		Convey("Should be zero without content", func() {
			So(playDuration(0, 1, 0), ShouldEqual, 0)
		})
	})

	Convey("normalizeRange", t, func() {
		Convey("Should play to 1 instead of wrapping to 0", func() {
			from, to := normalizeRange(0.4, 0)
			So(from, ShouldEqual, 0.4)
			So(to, ShouldEqual, 1)
		})

		Convey("Should start from 0 instead of 1", func() {
			from, to := normalizeRange(1, 0.3)
			So(from, ShouldEqual, 0)
			So(to, ShouldEqual, 0.3)
		})

		Convey("Should leave other ranges alone", func() {
			from, to := normalizeRange(0, 0)
			So(from, ShouldEqual, 0)
			So(to, ShouldEqual, 0)
			from, to = normalizeRange(1, 0)
			So(from, ShouldEqual, 0)
			So(to, ShouldEqual, 1)
			from, to = normalizeRange(0.7, 0.2)
			So(from, ShouldEqual, 0.7)
			So(to, ShouldEqual, 0.2)
		})
	})

	Convey("clamp01", t, func() {
		So(clamp01(-3), ShouldEqual, 0)
		So(clamp01(7), ShouldEqual, 1)
		So(clamp01(0.5), ShouldEqual, 0.5)
		So(clamp01(math.NaN()), ShouldEqual, 0)
		So(clamp01(math.Inf(1)), ShouldEqual, 1)
	})
}

func TestBuildAnimation(t *testing.T) {
	Convey("buildAnimation", t, func() {
		Convey("Should run straight from from to to", func() {
			anim := buildAnimation(0.2, 0.6, false, time.Second)
			kfs := anim.Keyframes()
			So(kfs, ShouldHaveLength, 2)
			So(kfs[0].Value, ShouldEqual, 0.2)
			So(kfs[1].Value, ShouldEqual, 0.6)
			So(anim.Iterations(), ShouldEqual, 1)
			So(anim.Duration, ShouldEqual, time.Second)
		})

		Convey("Should pass through 1 then 0 at the wrap seam", func() {
			anim := buildAnimation(0.8, 0.2, false, time.Second)
			kfs := anim.Keyframes()
			So(kfs, ShouldHaveLength, 4)
			So(kfs[1].Time, ShouldAlmostEqual, 0.5)
			So(kfs[1].Value, ShouldEqual, 1)
			So(kfs[2].Time, ShouldAlmostEqual, 0.5+wrapEpsilon)
			So(kfs[2].Value, ShouldEqual, 0)
			So(kfs[3].Value, ShouldEqual, 0.2)

			So(anim.ValueAt(0.25), ShouldAlmostEqual, 0.9, 1e-9)
			So(anim.ValueAt(0.75), ShouldAlmostEqual, 0.1, 1e-6)
		})

		Convey("Should loop forever when looped", func() {
			anim := buildAnimation(0, 1, true, time.Second)
			So(anim.IterationBehavior, ShouldEqual, compositor.IterationForever)
			So(anim.Iterations(), ShouldEqual, 0)
		})
	})
}
