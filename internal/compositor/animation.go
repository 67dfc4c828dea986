package compositor

import (
	"sort"
	"time"
)

type Easing int

const (
	// EasingLinear interpolates linearly from the previous keyframe.
	EasingLinear Easing = iota
	// EasingStep holds the previous keyframe's value until this keyframe is reached.
	EasingStep
)

type IterationBehavior int

const (
	IterationCount IterationBehavior = iota
	IterationForever
)

// Keyframe is a value at a normalized time in [0,1] of one iteration.
// Easing describes the segment that ends at this keyframe.
type Keyframe struct {
	Time   float64
	Value  float64
	Easing Easing
}

// ScalarAnimation is a keyframed description of a scalar over time.
// It is immutable once handed to StartAnimation.
type ScalarAnimation struct {
	Duration          time.Duration
	IterationBehavior IterationBehavior
	IterationCount    int

	keyframes []Keyframe
}

func NewScalarAnimation(duration time.Duration) *ScalarAnimation {
	return &ScalarAnimation{
		Duration:          duration,
		IterationBehavior: IterationCount,
		IterationCount:    1,
	}
}

// InsertKeyframe adds a keyframe, replacing any keyframe already at t.
func (a *ScalarAnimation) InsertKeyframe(t, value float64, easing Easing) {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	kf := Keyframe{Time: t, Value: value, Easing: easing}

	i := sort.Search(len(a.keyframes), func(i int) bool { return a.keyframes[i].Time >= t })
	if i < len(a.keyframes) && a.keyframes[i].Time == t {
		a.keyframes[i] = kf
		return
	}
	a.keyframes = append(a.keyframes, Keyframe{})
	copy(a.keyframes[i+1:], a.keyframes[i:])
	a.keyframes[i] = kf
}

// Keyframes returns a copy of the keyframes in time order.
func (a *ScalarAnimation) Keyframes() []Keyframe {
	out := make([]Keyframe, len(a.keyframes))
	copy(out, a.keyframes)
	return out
}

// Iterations returns the number of iterations, or 0 for IterationForever.
func (a *ScalarAnimation) Iterations() int {
	if a.IterationBehavior == IterationForever {
		return 0
	}
	return max(a.IterationCount, 1)
}

// ValueAt evaluates the animation at a normalized time inside one iteration.
func (a *ScalarAnimation) ValueAt(t float64) float64 {
	kfs := a.keyframes
	if len(kfs) == 0 {
		return 0
	}
	if t <= kfs[0].Time {
		return kfs[0].Value
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return last.Value
	}

	// First keyframe strictly after t.
	i := sort.Search(len(kfs), func(i int) bool { return kfs[i].Time > t })
	prev, next := kfs[i-1], kfs[i]

	span := next.Time - prev.Time
	if span <= 0 {
		return next.Value
	}
	switch next.Easing {
	case EasingStep:
		return prev.Value
	default:
		f := (t - prev.Time) / span
		return prev.Value + (next.Value-prev.Value)*f
	}
}
