package compositor

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestSet() (*Compositor, *PropertySet, *ManualClock) {
	clock := NewManualClock(time.Unix(1000, 0))
	comp := New(clock)
	return comp, comp.NewPropertySet(), clock
}

func linearAnimation(d time.Duration, from, to float64) *ScalarAnimation {
	a := NewScalarAnimation(d)
	a.InsertKeyframe(0, from, EasingLinear)
	a.InsertKeyframe(1, to, EasingLinear)
	return a
}

func TestScalarAnimation(t *testing.T) {
	Convey("ScalarAnimation", t, func() {
		a := NewScalarAnimation(time.Second)

		Convey("Should keep keyframes sorted and replace duplicates", func() {
			a.InsertKeyframe(1, 10, EasingLinear)
			a.InsertKeyframe(0, 0, EasingLinear)
			a.InsertKeyframe(0.5, 3, EasingLinear)
			a.InsertKeyframe(0.5, 5, EasingLinear)

			kfs := a.Keyframes()
			So(kfs, ShouldHaveLength, 3)
			So(kfs[1].Value, ShouldEqual, 5)
		})

		Convey("Should interpolate linear segments", func() {
			a.InsertKeyframe(0, 0, EasingLinear)
			a.InsertKeyframe(1, 10, EasingLinear)
			So(a.ValueAt(0.25), ShouldAlmostEqual, 2.5)
			So(a.ValueAt(-1), ShouldEqual, 0)
			So(a.ValueAt(2), ShouldEqual, 10)
		})

		Convey("Should hold the previous value on step segments", func() {
			a.InsertKeyframe(0, 1, EasingLinear)
			a.InsertKeyframe(0.5, 2, EasingStep)
			So(a.ValueAt(0.49), ShouldEqual, 1)
			So(a.ValueAt(0.5), ShouldEqual, 2)
		})

		Convey("Should pass through a wrap seam", func() {
			a.InsertKeyframe(0, 0.8, EasingLinear)
			a.InsertKeyframe(0.5, 1, EasingLinear)
			a.InsertKeyframe(0.5+1e-7, 0, EasingLinear)
			a.InsertKeyframe(1, 0.2, EasingLinear)
			So(a.ValueAt(0.25), ShouldAlmostEqual, 0.9)
			So(a.ValueAt(0.75), ShouldAlmostEqual, 0.1, 1e-6)
		})
	})
}

func TestAnimationController(t *testing.T) {
	Convey("AnimationController", t, func() {
		comp, set, clock := newTestSet()

		Convey("Should advance with the clock", func() {
			set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			clock.Advance(250 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.25)
		})

		Convey("Should not advance while paused", func() {
			ctrl := set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			clock.Advance(100 * time.Millisecond)
			ctrl.Pause()
			clock.Advance(time.Hour)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.1)
			ctrl.Resume()
			clock.Advance(100 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.2)
		})

		Convey("Should honour playback rate and reverse seeks", func() {
			ctrl := set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			ctrl.SetPlaybackRate(-2)
			ctrl.Seek(1)
			clock.Advance(250 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.5)
			clock.Advance(time.Second)
			So(ctrl.Finished(), ShouldBeTrue)
			So(set.Scalar("Progress"), ShouldEqual, 0)
		})

		Convey("Should loop forever animations", func() {
			a := linearAnimation(time.Second, 0, 1)
			a.IterationBehavior = IterationForever
			ctrl := set.StartAnimation("Progress", a)
			clock.Advance(2500 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.5)
			So(ctrl.Finished(), ShouldBeFalse)
		})

		Convey("Should start reversed forever animations at the end", func() {
			a := linearAnimation(time.Second, 0, 1)
			a.IterationBehavior = IterationForever
			ctrl := set.StartAnimation("Progress", a)
			ctrl.SetPlaybackRate(-1)
			ctrl.Seek(1)
			So(set.Scalar("Progress"), ShouldEqual, 1)
			So(ctrl.Progress(), ShouldEqual, 1)
			clock.Advance(250 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.75)
			clock.Advance(750 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldEqual, 1)
		})

		Convey("Should bake the value when stopped", func() {
			ctrl := set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			clock.Advance(400 * time.Millisecond)
			ctrl.Stop()
			clock.Advance(time.Second)
			So(set.Scalar("Progress"), ShouldAlmostEqual, 0.4)
			So(set.TryGetAnimationController("Progress"), ShouldBeNil)
			So(comp.Animating(), ShouldBeTrue)
			comp.Tick()
			So(comp.Animating(), ShouldBeFalse)
		})
	})
}

func TestPropertySet(t *testing.T) {
	Convey("PropertySet", t, func() {
		comp, set, clock := newTestSet()

		Convey("InsertScalar should stop a running animation", func() {
			ctrl := set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			set.InsertScalar("Progress", 0.7)
			clock.Advance(300 * time.Millisecond)
			So(set.Scalar("Progress"), ShouldEqual, 0.7)
			So(ctrl.Finished(), ShouldBeTrue)
		})

		Convey("Link should follow the source live", func() {
			visual := comp.NewPropertySet()
			visual.Link("Progress", set, "Progress")
			set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			clock.Advance(600 * time.Millisecond)
			So(visual.Scalar("Progress"), ShouldAlmostEqual, 0.6)

			visual.Unlink("Progress")
			clock.Advance(200 * time.Millisecond)
			So(visual.Scalar("Progress"), ShouldAlmostEqual, 0.6)
		})
	})
}

func TestBatch(t *testing.T) {
	Convey("Batch", t, func() {
		comp, set, clock := newTestSet()

		Convey("Should complete once its animations finish", func() {
			b := comp.CreateScopedBatch()
			fired := 0
			b.OnCompleted(func() { fired++ })
			set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			b.End()

			comp.Tick()
			So(fired, ShouldEqual, 0)

			clock.Advance(time.Second)
			comp.Tick()
			comp.Tick()
			So(fired, ShouldEqual, 1)
			So(b.IsCompleted(), ShouldBeTrue)
			So(set.Scalar("Progress"), ShouldEqual, 1)
		})

		Convey("Should not fire unsubscribed handlers", func() {
			b := comp.CreateScopedBatch()
			fired := 0
			cancel := b.OnCompleted(func() { fired++ })
			set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			b.End()
			cancel()

			clock.Advance(2 * time.Second)
			comp.Tick()
			So(fired, ShouldEqual, 0)
			So(b.IsCompleted(), ShouldBeTrue)
		})

		Convey("Should wait for End", func() {
			b := comp.CreateScopedBatch()
			fired := 0
			b.OnCompleted(func() { fired++ })
			set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			clock.Advance(2 * time.Second)
			comp.Tick()
			So(fired, ShouldEqual, 0)

			b.End()
			comp.Tick()
			So(fired, ShouldEqual, 1)
		})

		Convey("Should only collect animations started while open", func() {
			b := comp.CreateScopedBatch()
			b.End()
			fired := 0
			b.OnCompleted(func() { fired++ })
			set.StartAnimation("Progress", linearAnimation(time.Second, 0, 1))
			comp.Tick()
			So(fired, ShouldEqual, 1)
		})
	})
}
