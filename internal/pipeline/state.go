package pipeline

import (
	"sync/atomic"
	"time"

	"go.klb.dev/autocopy/internal/gesture"
)

// Stats counts pipeline outcomes since start.
type Stats struct {
	Gestures      uint64 // non-None classifications
	Copies        uint64 // copy keystrokes injected
	Confirmations uint64
	Duplicates    uint64 // changed, but equal to LastCopied
	Empty         uint64 // changed, but no text
	Unchanged     uint64 // version unchanged: nothing was selected
	Ignored       uint64 // presses dropped while a cycle was in flight
	Abandoned     uint64 // scheduled copies dropped by a toggle
	Rearms        uint64
	LastConfirmed time.Time
}

// State is all process-wide mutable state of the pipeline. Everything but
// the enabled flag is touched only from the pipeline loop; enabled is also
// read by the input delivery goroutine, so it is atomic.
type State struct {
	enabled atomic.Bool

	classifier *gesture.Classifier
	lastCopied string
	// epoch increases on every toggle; continuations scheduled under an
	// older epoch are stale.
	epoch uint64
	// busy is true from a classified gesture until its verification.
	busy bool
	// injected is true once the busy cycle's keystroke is out; from then on
	// only its verification ends the cycle, whatever the epoch.
	injected bool
	stats    Stats
}

// NewState returns the initial state.
func NewState(enabled bool, minDrag float64) *State {
	st := &State{classifier: gesture.NewClassifier(minDrag)}
	st.enabled.Store(enabled)
	return st
}

// Enabled reports the gate. Safe from any goroutine.
func (s *State) Enabled() bool { return s.enabled.Load() }
