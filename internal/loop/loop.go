// Package loop provides the single serialized execution context that all
// pipeline state lives on.
//
// Input callbacks, delayed continuations, and control requests are all
// funnelled through one queue and executed in order by one goroutine, so the
// work itself needs no locking.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"
)

// DefaultDepth is the default queue capacity.
const DefaultDepth = 256

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("loop stopped")

// Loop executes posted functions one at a time.
type Loop struct {
	clock Clock
	queue chan func()
	done  chan struct{}
}

// New returns a loop that schedules delayed work on clock.
func New(clock Clock, depth int) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Loop{
		clock: clock,
		queue: make(chan func(), depth),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn without blocking. It reports false, and drops fn, when
// the queue is full; callers on a latency-critical path (the input hook)
// prefer losing an event to stalling.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.queue <- fn:
		return true
	default:
		slog.Warn("loop queue full, dropping work")
		return false
	}
}

// After runs fn on the loop once d has elapsed. Delayed work is never
// dropped; the timer goroutine waits for queue space or loop exit.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	return l.clock.AfterFunc(d, func() {
		select {
		case l.queue <- fn:
		case <-l.done:
		}
	})
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.queue <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Run executes queued work until ctx is cancelled. It must be called at
// most once.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.exec(fn)
		}
	}
}

// Drain executes everything currently queued on the caller's goroutine and
// returns how many functions ran. Work queued by those functions is run too.
// Only valid while Run is not running.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			l.exec(fn)
			n++
		default:
			return n
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in loop work", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
