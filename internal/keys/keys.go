// Package keys synthesizes the platform copy keystroke.
package keys

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"
)

// Chord is a key plus the modifiers held while it is pressed.
type Chord struct {
	Key       string
	Modifiers []string
}

func (c Chord) String() string {
	return strings.Join(append(append([]string(nil), c.Modifiers...), c.Key), "+")
}

// CopyChord returns the copy keyboard-equivalent for goos: Cmd+C on macOS,
// Ctrl+C everywhere else.
//
// In most Linux terminal emulators Ctrl+C interrupts the foreground
// program; users who select text in terminals should configure
// "ctrl+shift+c" instead.
func CopyChord(goos string) Chord {
	if goos == "darwin" {
		return Chord{Key: "c", Modifiers: []string{"cmd"}}
	}
	return Chord{Key: "c", Modifiers: []string{"ctrl"}}
}

var modifierNames = map[string]string{
	"cmd":     "cmd",
	"command": "cmd",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
}

// ParseChord parses "ctrl+shift+c" style chords. The last element is the
// key; the rest must be modifiers, and at least one is required so a
// misconfiguration can never type plain text into the focused window.
// An empty string yields the platform default.
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return CopyChord(runtime.GOOS), nil
	}
	parts := strings.Split(s, "+")
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return Chord{}, fmt.Errorf("copy chord %q: missing key", s)
	}
	if len(parts) < 2 {
		return Chord{}, fmt.Errorf("copy chord %q: at least one modifier is required", s)
	}
	c := Chord{Key: key}
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.TrimSpace(p)]
		if !ok {
			return Chord{}, fmt.Errorf("copy chord %q: unknown modifier %q", s, p)
		}
		c.Modifiers = append(c.Modifiers, m)
	}
	return c, nil
}

// Injector posts a copy command into the system-wide event stream.
// Injection is fire-and-forget; the effect is only observable on the
// clipboard.
type Injector interface {
	Copy() error
}

// Toggler presses (down=true) or releases one key with modifiers held.
type Toggler func(key string, down bool, modifiers ...string) error

// ChordInjector emits key-down then key-up for a chord, with the modifiers
// held on both events.
type ChordInjector struct {
	chord  Chord
	toggle Toggler
}

// New returns the robotgo-backed injector for chord.
func New(chord Chord) *ChordInjector {
	return NewChordInjector(chord, robotToggle)
}

// NewChordInjector returns an injector for chord using toggle.
func NewChordInjector(chord Chord, toggle Toggler) *ChordInjector {
	return &ChordInjector{chord: chord, toggle: toggle}
}

// Chord returns the chord this injector sends.
func (i *ChordInjector) Chord() Chord { return i.chord }

var errNoKey = errors.New("empty chord")

// Copy implements Injector.
func (i *ChordInjector) Copy() error {
	if i.chord.Key == "" {
		return errNoKey
	}
	if err := i.toggle(i.chord.Key, true, i.chord.Modifiers...); err != nil {
		return fmt.Errorf("key down %s: %w", i.chord, err)
	}
	if err := i.toggle(i.chord.Key, false, i.chord.Modifiers...); err != nil {
		return fmt.Errorf("key up %s: %w", i.chord, err)
	}
	return nil
}

func robotToggle(key string, down bool, modifiers ...string) error {
	state := "up"
	if down {
		state = "down"
	}
	args := make([]any, 0, len(modifiers)+1)
	args = append(args, state)
	for _, m := range modifiers {
		args = append(args, m)
	}
	return robotgo.KeyToggle(key, args...)
}
