package playback

import (
	"context"
	"sync"
)

// Dispatcher schedules work onto the goroutine that owns a Controller.
// Post must not run fn synchronously.
type Dispatcher interface {
	Post(fn func())
}

// Loop is a FIFO Dispatcher drained by whichever goroutine calls Run or
// Drain. That goroutine is the owner of every Controller posting to it.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Drain runs everything queued so far, including work posted while
// draining, and returns how many funcs ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
		n++
	}
}

// Pending returns the number of queued funcs.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Ready receives after work is posted. A receive may be spurious when a
// concurrent Drain already ran the work.
func (l *Loop) Ready() <-chan struct{} { return l.wake }

// Run drains the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.Drain()
		}
	}
}
