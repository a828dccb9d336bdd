package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	m := Default()
	require.NoError(t, m.Validate())
	require.Equal(t, 8.0, m.MinDragDistance)
	require.Greater(t, m.MultiClickDelay, m.DragDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Monitor)
		want   string
	}{
		{"zero distance", func(m *Monitor) { m.MinDragDistance = 0 }, "min-drag-distance"},
		{"negative drag delay", func(m *Monitor) { m.DragDelay = -time.Millisecond }, "drag-delay"},
		{"zero multi-click delay", func(m *Monitor) { m.MultiClickDelay = 0 }, "multi-click-delay"},
		{"zero flash", func(m *Monitor) { m.FlashDuration = 0 }, "flash-duration"},
		{"verification too long", func(m *Monitor) { m.VerificationDelay = 2 * time.Second }, "below"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	m := Monitor{}
	err := m.Validate()
	require.Error(t, err)
	for _, field := range []string{"min-drag-distance", "multi-click-delay", "drag-delay", "verification-delay", "flash-duration"} {
		require.Contains(t, err.Error(), field)
	}
}
