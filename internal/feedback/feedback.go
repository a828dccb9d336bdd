// Package feedback is the write-only confirmation sink. Rendering (menu-bar
// icon, tray, notification) lives outside the core; the core only says what
// to show.
package feedback

import (
	"log/slog"
	"sync"
)

// Indicator receives state changes from the pipeline. Calls are made from
// the pipeline loop and must not block.
type Indicator interface {
	// SetEnabled shows the idle on/off state. It is also how a flash is
	// reverted.
	SetEnabled(enabled bool)
	// FlashConfirmation shows that a copy was captured. The pipeline
	// reverts it with SetEnabled after the configured flash duration.
	FlashConfirmation()
	SetTooltip(text string)
}

// Tooltip returns the standard tooltip for an enabled state.
func Tooltip(enabled bool) string {
	if enabled {
		return "autocopy: on"
	}
	return "autocopy: off"
}

// LogIndicator renders indicator changes as log records, for the headless
// daemon.
type LogIndicator struct{}

func (LogIndicator) SetEnabled(enabled bool) { slog.Debug("indicator", "enabled", enabled) }
func (LogIndicator) FlashConfirmation()      { slog.Info("copied selection") }
func (LogIndicator) SetTooltip(text string)  { slog.Debug("indicator tooltip", "text", text) }

// Recorder keeps every call, in order. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *Recorder) add(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *Recorder) SetEnabled(enabled bool) {
	if enabled {
		r.add("enabled")
	} else {
		r.add("disabled")
	}
}

func (r *Recorder) FlashConfirmation()     { r.add("flash") }
func (r *Recorder) SetTooltip(text string) { r.add("tooltip:" + text) }

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Flashes counts FlashConfirmation calls.
func (r *Recorder) Flashes() int {
	n := 0
	for _, c := range r.Calls() {
		if c == "flash" {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
