package playback

import (
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/ygelfand/animctl/internal/compositor"
)

// wrapEpsilon separates the 1 and 0 keyframes at a wrap seam. It matches
// float32 machine epsilon so the seam is as narrow as the backend resolves.
const wrapEpsilon = 1.1920929e-07

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return lo.Clamp(v, 0, 1)
}

// normalizeRange rewrites the two degenerate boundary requests: [x→0] with
// x>0 plays to 1 instead, and [1→y] with y>0 starts from 0 instead.
func normalizeRange(from, to float64) (float64, float64) {
	if to == 0 && from > 0 {
		to = 1
	}
	if from == 1 && to > 0 {
		from = 0
	}
	return from, to
}

// rangeLength is the share of the timeline a play covers. A from greater
// than to wraps through the end.
func rangeLength(from, to float64) float64 {
	if from > to {
		return (1 - from) + to
	}
	return to - from
}

func playDuration(from, to float64, content time.Duration) time.Duration {
	return time.Duration(float64(content) * rangeLength(from, to))
}

// buildAnimation maps a play range onto a linear keyframe animation.
// Wrapping plays reach 1 at the seam and restart from 0 an epsilon later.
func buildAnimation(from, to float64, looped bool, d time.Duration) *compositor.ScalarAnimation {
	anim := compositor.NewScalarAnimation(d)
	anim.InsertKeyframe(0, from, compositor.EasingLinear)
	if from > to {
		seam := (1 - from) / ((1 - from) + to)
		anim.InsertKeyframe(seam, 1, compositor.EasingLinear)
		anim.InsertKeyframe(seam+wrapEpsilon, 0, compositor.EasingLinear)
	}
	anim.InsertKeyframe(1, to, compositor.EasingLinear)

	if looped {
		anim.IterationBehavior = compositor.IterationForever
	} else {
		anim.IterationBehavior = compositor.IterationCount
		anim.IterationCount = 1
	}
	return anim
}
