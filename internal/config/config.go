// Package config holds the static tunables of the selection monitor.
//
// Values are resolved once at startup (defaults -> config file -> env ->
// flags, see cmd/autocopy) and are immutable for the life of the process.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults.
const (
	DefaultMinDragDistance   = 8.0
	DefaultMultiClickDelay   = 100 * time.Millisecond
	DefaultDragDelay         = 50 * time.Millisecond
	DefaultVerificationDelay = 80 * time.Millisecond
	DefaultFlashDuration     = 700 * time.Millisecond

	// MaxVerificationDelay bounds how long a copy cycle may stay open.
	MaxVerificationDelay = time.Second
)

// Monitor is the immutable tuning of the detection pipeline.
type Monitor struct {
	// MinDragDistance is the smallest press/release distance, in screen
	// points, that counts as a drag selection.
	MinDragDistance float64

	// MultiClickDelay is how long to wait after a double/triple click
	// before sending the copy keystroke. Longer than DragDelay so the
	// application can finish expanding the selection to word/line.
	MultiClickDelay time.Duration

	// DragDelay is how long to wait after a drag release.
	DragDelay time.Duration

	// VerificationDelay is the settle time between the copy keystroke and
	// the second clipboard snapshot.
	VerificationDelay time.Duration

	// FlashDuration is how long the confirmation indicator stays up.
	FlashDuration time.Duration
}

// Default returns the stock tuning.
func Default() Monitor {
	return Monitor{
		MinDragDistance:   DefaultMinDragDistance,
		MultiClickDelay:   DefaultMultiClickDelay,
		DragDelay:         DefaultDragDelay,
		VerificationDelay: DefaultVerificationDelay,
		FlashDuration:     DefaultFlashDuration,
	}
}

// Validate reports every invalid field at once.
func (m Monitor) Validate() error {
	var errs []error
	if m.MinDragDistance <= 0 {
		errs = append(errs, fmt.Errorf("min-drag-distance must be positive, got %v", m.MinDragDistance))
	}
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"multi-click-delay", m.MultiClickDelay},
		{"drag-delay", m.DragDelay},
		{"verification-delay", m.VerificationDelay},
		{"flash-duration", m.FlashDuration},
	} {
		if d.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.v))
		}
	}
	if m.VerificationDelay >= MaxVerificationDelay {
		errs = append(errs, fmt.Errorf("verification-delay must be below %s, got %s", MaxVerificationDelay, m.VerificationDelay))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
