package input

import (
	"testing"

	hook "github.com/robotn/gohook"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   hook.Event
		want Event
		ok   bool
	}{
		{"left press", hook.Event{Kind: hookPress, Button: leftButton, X: 10, Y: 20, Clicks: 1}, Event{Kind: Press, X: 10, Y: 20, Clicks: 1}, true},
		{"left release double", hook.Event{Kind: hookRelease, Button: leftButton, X: 10, Y: 20, Clicks: 2}, Event{Kind: Release, X: 10, Y: 20, Clicks: 2}, true},
		{"right press", hook.Event{Kind: hookPress, Button: 2}, Event{}, false},
		{"hook disabled", hook.Event{Kind: hook.HookDisabled}, Event{Kind: Suspended}, true},
		{"mouse move", hook.Event{Kind: hook.MouseMove, X: 3}, Event{}, false},
		{"key down", hook.Event{Kind: hook.KeyDown}, Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convert(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPumpClosesOutput(t *testing.T) {
	raw := make(chan hook.Event, 4)
	out := make(chan Event, 4)
	raw <- hook.Event{Kind: hookPress, Button: leftButton}
	raw <- hook.Event{Kind: hook.MouseMove}
	close(raw)
	pump(raw, out)

	ev, ok := <-out
	require.True(t, ok)
	require.Equal(t, Press, ev.Kind)
	_, ok = <-out
	require.False(t, ok)
}
