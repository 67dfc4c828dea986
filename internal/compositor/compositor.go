// Package compositor is the time-driven rendering backend. It evaluates
// keyframed scalar animations against a Clock, exposes them through named
// property sets, and reports completion through scoped batches.
//
// Property reads are always evaluated at the current clock time. Tick only
// retires finished animations and fires batch completion, so it can run on
// its own goroutine at any frame rate.
package compositor

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const DefaultFrameInterval = time.Second / 60

type Compositor struct {
	clock Clock

	mu      sync.Mutex
	open    []*Batch
	pending []*Batch
	active  map[*AnimationController]struct{}
}

func New(clock Clock) *Compositor {
	if clock == nil {
		clock = SystemClock()
	}
	return &Compositor{
		clock:  clock,
		active: make(map[*AnimationController]struct{}),
	}
}

func (c *Compositor) Clock() Clock { return c.clock }

func (c *Compositor) NewPropertySet() *PropertySet {
	return &PropertySet{
		comp:       c,
		scalars:    make(map[string]float64),
		animations: make(map[string]*AnimationController),
		links:      make(map[string]link),
	}
}

// CreateScopedBatch opens a batch that collects every animation started
// until End is called.
func (c *Compositor) CreateScopedBatch() *Batch {
	b := &Batch{comp: c, handlers: make(map[int]func())}
	c.mu.Lock()
	c.open = append(c.open, b)
	c.mu.Unlock()
	return b
}

// Animating reports whether any animation is still registered.
func (c *Compositor) Animating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active) > 0
}

func (c *Compositor) track(ctrl *AnimationController) {
	c.mu.Lock()
	c.active[ctrl] = struct{}{}
	open := slices.Clone(c.open)
	c.mu.Unlock()

	for _, b := range open {
		b.add(ctrl)
	}
}

func (c *Compositor) endBatch(b *Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.open, b); i >= 0 {
		c.open = slices.Delete(c.open, i, i+1)
	}
	c.pending = append(c.pending, b)
}

// Tick retires finished animations and fires completed batches. Completion
// handlers run on the calling goroutine, outside of any compositor lock.
func (c *Compositor) Tick() {
	c.mu.Lock()
	var finished []*AnimationController
	for ctrl := range c.active {
		if ctrl.Finished() {
			finished = append(finished, ctrl)
			delete(c.active, ctrl)
		}
	}
	c.mu.Unlock()

	for _, ctrl := range finished {
		ctrl.set.stopAnimation(ctrl)
	}

	c.mu.Lock()
	var fire []func()
	remaining := c.pending[:0]
	for _, b := range c.pending {
		if fns, done := b.complete(); done {
			fire = append(fire, fns...)
			continue
		}
		remaining = append(remaining, b)
	}
	c.pending = remaining
	c.mu.Unlock()

	if len(finished) > 0 || len(fire) > 0 {
		slog.Debug("Compositor: tick", "retired", len(finished), "callbacks", len(fire))
	}
	for _, fn := range fire {
		fn()
	}
}

// Run ticks the compositor every interval until ctx is done.
func (c *Compositor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}
