package input

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	rearmBackoffMin = 50 * time.Millisecond
	rearmBackoffMax = 5 * time.Second
)

// Handler receives press and release events. It runs on the hook delivery
// goroutine and must return promptly: post the work elsewhere.
type Handler func(Event)

// Monitor forwards events from a Source and keeps it armed.
type Monitor struct {
	src     Source
	handle  Handler
	onRearm func()

	rearms atomic.Uint64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithRearmHook registers fn to be called after every successful re-arm.
func WithRearmHook(fn func()) Option {
	return func(m *Monitor) { m.onRearm = fn }
}

// NewMonitor returns a monitor that delivers src's button events to h.
func NewMonitor(src Source, h Handler, opts ...Option) *Monitor {
	m := &Monitor{src: src, handle: h}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Rearms returns how many times the hook has been re-armed.
func (m *Monitor) Rearms() uint64 { return m.rearms.Load() }

// Run subscribes and delivers events until ctx is cancelled. A startup
// failure is returned wrapped in ErrSubscribe and is not retried: it
// usually needs the user to grant a permission.
func (m *Monitor) Run(ctx context.Context) error {
	ch, err := m.src.Start()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribe, err)
	}
	defer m.src.Stop()
	slog.Info("input monitor started", "source", m.src.Name())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				ev = Event{Kind: Suspended}
			}
			switch ev.Kind {
			case Press, Release:
				m.handle(ev)
			case Suspended:
				ch, err = m.rearm(ctx)
				if err != nil {
					return nil // ctx cancelled while retrying
				}
			}
		}
	}
}

// rearm re-enables the hook immediately, backing off only if the host
// refuses. A hook left disabled would silently turn the whole system off.
func (m *Monitor) rearm(ctx context.Context) (<-chan Event, error) {
	delay := rearmBackoffMin
	for {
		ch, err := m.src.Rearm()
		if err == nil {
			n := m.rearms.Add(1)
			slog.Warn("input hook suspended by host, re-armed", "rearms", n)
			if m.onRearm != nil {
				m.onRearm()
			}
			return ch, nil
		}
		slog.Error("input hook re-arm failed", "err", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, rearmBackoffMax)
	}
}
