// Package input subscribes to system-wide left-button presses and releases.
//
// A Source delivers raw events from the host hook; Monitor owns a Source,
// forwards button events to a handler, and re-arms the hook whenever the
// host suspends it.
package input

import (
	"errors"
	"fmt"
)

// Kind identifies an input event.
type Kind int

const (
	Press Kind = iota + 1
	Release
	// Suspended means the host disabled the subscription (response-time
	// budget exceeded, user-input override). The hook must be re-armed.
	Suspended
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case Suspended:
		return "suspended"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one left-button event in screen coordinates. Clicks is the host's
// rapid successive click count at the same location.
type Event struct {
	Kind   Kind
	X, Y   float64
	Clicks int
}

// ErrSubscribe wraps any failure to establish the input subscription,
// typically a missing accessibility/input-monitoring permission.
var ErrSubscribe = errors.New("input subscription failed")

// Source is a host input hook.
type Source interface {
	// Name returns a human-readable name for the source.
	Name() string

	// Start establishes the subscription and returns its event channel.
	// The channel is closed if the hook stops on its own.
	Start() (<-chan Event, error)

	// Rearm re-establishes a suspended subscription and returns the new
	// event channel. The previous channel must no longer be read.
	Rearm() (<-chan Event, error)

	// Stop tears the subscription down.
	Stop()
}
