package compositor

import "sync"

// Batch groups the animations started while it is open. Once ended, it
// completes on the first tick where all of its counted animations have
// finished or been stopped. Forever animations never hold a batch open.
type Batch struct {
	comp *Compositor

	mu         sync.Mutex
	animations []*AnimationController
	ended      bool
	completed  bool
	handlers   map[int]func()
	nextID     int
}

// OnCompleted registers fn to run once when the batch completes. fn runs on
// the goroutine that ticks the compositor. The returned func unsubscribes.
// Registering on an already completed batch is a no-op.
func (b *Batch) OnCompleted(fn func()) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.completed {
		return func() {}
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// End closes the batch to new animations.
func (b *Batch) End() {
	b.mu.Lock()
	if b.ended {
		b.mu.Unlock()
		return
	}
	b.ended = true
	b.mu.Unlock()
	b.comp.endBatch(b)
}

func (b *Batch) IsEnded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ended
}

func (b *Batch) IsCompleted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed
}

func (b *Batch) add(ctrl *AnimationController) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.animations = append(b.animations, ctrl)
}

// complete marks the batch completed if every counted animation is done
// and returns the handlers to fire.
func (b *Batch) complete() ([]func(), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.completed || !b.ended {
		return nil, false
	}
	for _, a := range b.animations {
		if !a.isForever() && !a.Finished() {
			return nil, false
		}
	}
	b.completed = true
	fns := make([]func(), 0, len(b.handlers))
	for _, fn := range b.handlers {
		fns = append(fns, fn)
	}
	b.handlers = nil
	return fns, true
}
