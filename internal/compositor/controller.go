package compositor

import (
	"math"
	"sync"
	"time"
)

// AnimationController drives one running ScalarAnimation on a property.
//
// Position is measured in iterations: 0 is the start of the first
// iteration and Iterations() is the end of the last one. Pause, rate
// changes and seeks re-anchor the position so no time is lost or gained.
type AnimationController struct {
	set      *PropertySet
	property string
	anim     *ScalarAnimation
	clock    Clock

	mu        sync.Mutex
	rate      float64
	paused    bool
	stopped   bool
	anchorAt  time.Time
	anchorPos float64
}

func newAnimationController(set *PropertySet, property string, anim *ScalarAnimation, clock Clock) *AnimationController {
	return &AnimationController{
		set:      set,
		property: property,
		anim:     anim,
		clock:    clock,
		rate:     1,
		anchorAt: clock.Now(),
	}
}

// Property returns the name of the animated property.
func (c *AnimationController) Property() string { return c.property }

func (c *AnimationController) Animation() *ScalarAnimation { return c.anim }

func (c *AnimationController) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || c.stopped {
		return
	}
	c.anchorLocked(c.clock.Now())
	c.paused = true
}

func (c *AnimationController) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused || c.stopped {
		return
	}
	c.anchorAt = c.clock.Now()
	c.paused = false
}

func (c *AnimationController) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetPlaybackRate changes the speed multiplier. Negative rates run backwards.
func (c *AnimationController) SetPlaybackRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorLocked(c.clock.Now())
	c.rate = rate
}

func (c *AnimationController) PlaybackRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Seek moves to a normalized position of the whole animation. For
// IterationForever animations the position is within one iteration.
func (c *AnimationController) Seek(progress float64) {
	progress = math.Max(0, math.Min(1, progress))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorAt = c.clock.Now()
	if n := c.anim.Iterations(); n > 0 {
		c.anchorPos = progress * float64(n)
	} else {
		c.anchorPos = progress
	}
}

// Progress returns the normalized position of the whole animation.
func (c *AnimationController) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.positionLocked(c.clock.Now())
	if n := c.anim.Iterations(); n > 0 {
		return pos / float64(n)
	}
	return c.fractionLocked(pos)
}

// Value evaluates the animated property at the current time.
func (c *AnimationController) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anim.ValueAt(c.fractionLocked(c.positionLocked(c.clock.Now())))
}

// Finished reports whether a counted animation has run out, or the
// animation was stopped. Forever animations only finish when stopped.
func (c *AnimationController) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finishedLocked(c.clock.Now())
}

// Stop detaches the animation from its property, leaving the property at
// the value it had when stopped.
func (c *AnimationController) Stop() {
	c.set.stopAnimation(c)
}

func (c *AnimationController) markStopped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.anchorLocked(c.clock.Now())
	c.stopped = true
}

func (c *AnimationController) anchorLocked(now time.Time) {
	c.anchorPos = c.positionLocked(now)
	c.anchorAt = now
}

func (c *AnimationController) positionLocked(now time.Time) float64 {
	n := c.anim.Iterations()
	if c.anim.Duration <= 0 && n > 0 {
		if c.rate < 0 {
			return 0
		}
		return float64(n)
	}

	pos := c.anchorPos
	if !c.paused && !c.stopped {
		pos += float64(now.Sub(c.anchorAt)) / float64(c.anim.Duration) * c.rate
	}
	if n > 0 {
		pos = math.Max(0, math.Min(float64(n), pos))
	}
	return pos
}

func (c *AnimationController) fractionLocked(pos float64) float64 {
	if n := c.anim.Iterations(); n > 0 {
		if pos >= float64(n) {
			return 1
		}
		if pos <= 0 {
			return 0
		}
	}
	f := pos - math.Floor(pos)
	// Running backwards, an iteration boundary is the end of the next
	// iteration rather than the start of the previous one.
	if f == 0 && c.rate < 0 {
		return 1
	}
	return f
}

func (c *AnimationController) finishedLocked(now time.Time) bool {
	if c.stopped {
		return true
	}
	n := c.anim.Iterations()
	if n == 0 {
		return false
	}
	pos := c.positionLocked(now)
	switch {
	case c.rate > 0:
		return pos >= float64(n)
	case c.rate < 0:
		return pos <= 0
	default:
		return false
	}
}

func (c *AnimationController) isForever() bool {
	return c.anim.Iterations() == 0
}
