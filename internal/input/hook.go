package input

import (
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

// gohook numbers its kinds after libuiohook: MouseHold is the button press
// and MouseDown the release (MouseUp is the synthesized "clicked" event).
const (
	hookPress   = hook.MouseHold
	hookRelease = hook.MouseDown

	leftButton = 1
)

// hookSource is the libuiohook-backed Source. gohook keeps process-global
// state, so there must be only one.
type hookSource struct {
	mu      sync.Mutex
	running bool
}

// NewHookSource returns the system-wide gohook source.
func NewHookSource() Source { return &hookSource{} }

func (s *hookSource) Name() string { return "gohook" }

func (s *hookSource) Start() (<-chan Event, error) {
	if err := checkAccess(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armLocked(), nil
}

func (s *hookSource) Rearm() (<-chan Event, error) {
	if err := checkAccess(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		hook.End()
		s.running = false
	}
	return s.armLocked(), nil
}

func (s *hookSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		hook.End()
		s.running = false
	}
}

func (s *hookSource) armLocked() <-chan Event {
	raw := hook.Start()
	s.running = true
	out := make(chan Event, 64)
	go pump(raw, out)
	return out
}

// pump converts raw hook events. Sends never block: the hook thread sits in
// the host's synchronous delivery path.
func pump(raw <-chan hook.Event, out chan<- Event) {
	defer close(out)
	for re := range raw {
		ev, ok := convert(re)
		if !ok {
			continue
		}
		select {
		case out <- ev:
		default:
			slog.Warn("input event dropped, consumer too slow", "kind", ev.Kind)
		}
	}
}

func convert(re hook.Event) (Event, bool) {
	switch re.Kind {
	case hook.HookDisabled:
		return Event{Kind: Suspended}, true
	case hookPress, hookRelease:
		if re.Button != leftButton {
			return Event{}, false
		}
		k := Press
		if re.Kind == hookRelease {
			k = Release
		}
		return Event{Kind: k, X: float64(re.X), Y: float64(re.Y), Clicks: int(re.Clicks)}, true
	default:
		return Event{}, false
	}
}
