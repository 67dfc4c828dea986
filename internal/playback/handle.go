package playback

import (
	"context"
	"sync"
)

// Handle is the awaitable side of a play request. It completes exactly once,
// when the play completes for any reason, and never carries an error.
type Handle struct {
	dispatcher Dispatcher
	done       chan struct{}

	mu        sync.Mutex
	resolved  bool
	callbacks []func()
}

func newHandle(d Dispatcher) *Handle {
	return &Handle{dispatcher: d, done: make(chan struct{})}
}

func resolvedHandle(d Dispatcher) *Handle {
	h := newHandle(d)
	h.resolve()
	return h
}

// Done is closed when the play has completed.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) IsDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks the calling goroutine until the play completes. A cancelled
// ctx only stops the wait; it does not stop the play.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnDone posts fn to the dispatcher of the goroutine that requested the play
// once it has completed. Registering after completion posts fn right away.
func (h *Handle) OnDone(fn func()) {
	h.mu.Lock()
	if !h.resolved {
		h.callbacks = append(h.callbacks, fn)
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	h.dispatcher.Post(fn)
}

func (h *Handle) resolve() {
	h.mu.Lock()
	if h.resolved {
		h.mu.Unlock()
		return
	}
	h.resolved = true
	fns := h.callbacks
	h.callbacks = nil
	close(h.done)
	h.mu.Unlock()

	for _, fn := range fns {
		h.dispatcher.Post(fn)
	}
}
