// Package clip provides versioned plain-text snapshots of the system
// clipboard. The platform capability is resolved once, at construction:
//
//	clip_darwin.go   — macOS via golang.design/x/clipboard + cgo changeCount
//	clip_windows.go  — Windows via golang.design/x/clipboard + GetClipboardSequenceNumber
//	clip_linux.go    — Linux via golang.design/x/clipboard, content-derived version
//	clip_cli.go      — xclip/xsel/wl-clipboard/pbpaste via atotto/clipboard
//	clip_headless.go — no-op stub for hosts without a display
package clip

import (
	"fmt"
	"sync"
)

// Backend modes accepted by New.
const (
	ModeAuto     = "auto"
	ModeCLI      = "cli"
	ModeHeadless = "headless"
)

// Snapshot is the clipboard state at one instant.
type Snapshot struct {
	// Version is the host change counter. It increases on every mutation;
	// two snapshots differ iff their versions differ.
	Version uint64
	// Text is the plain-text content, "" when empty or not text.
	Text string
}

// Changed reports whether the clipboard was mutated between s and next.
func (s Snapshot) Changed(next Snapshot) bool { return s.Version != next.Version }

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Snapshot reads the change counter and the text. Read failures yield
	// empty text, never an error: an unreadable clipboard simply never
	// confirms a copy.
	Snapshot() Snapshot

	// Close releases any resources held by the backend.
	Close()
}

// New returns the backend for mode. ModeAuto picks the best backend the
// platform supports, degrading to the CLI tools and then to headless.
func New(mode string) (Backend, error) {
	switch mode {
	case "", ModeAuto:
		return newNative(), nil
	case ModeCLI:
		return newCLI()
	case ModeHeadless:
		return newHeadless(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q (want %s|%s|%s)", mode, ModeAuto, ModeCLI, ModeHeadless)
	}
}

// textVersion derives a change counter from observed content, for hosts
// that expose none. Re-copying identical text is invisible to it.
type textVersion struct {
	mu   sync.Mutex
	seen bool
	last string
	n    uint64
}

func (v *textVersion) observe(text string) Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seen || text != v.last {
		v.seen = true
		v.last = text
		v.n++
	}
	return Snapshot{Version: v.n, Text: text}
}
