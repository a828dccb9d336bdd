package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/autocopy/internal/clip"
	"go.klb.dev/autocopy/internal/config"
	"go.klb.dev/autocopy/internal/feedback"
	"go.klb.dev/autocopy/internal/input"
	"go.klb.dev/autocopy/internal/loop"
)

// fakeClip is a clipboard whose copy result is scripted per test.
type fakeClip struct {
	snap  clip.Snapshot
	reads int
}

func (c *fakeClip) Name() string { return "fake" }
func (c *fakeClip) Snapshot() clip.Snapshot {
	c.reads++
	return c.snap
}
func (c *fakeClip) Close() {}

// set simulates a host clipboard write.
func (c *fakeClip) set(text string) {
	c.snap = clip.Snapshot{Version: c.snap.Version + 1, Text: text}
}

// fakeKeys performs the scripted selection result when "pressed".
type fakeKeys struct {
	onCopy func()
	err    error
	copies int
}

func (k *fakeKeys) Copy() error {
	k.copies++
	if k.err != nil {
		return k.err
	}
	if k.onCopy != nil {
		k.onCopy()
	}
	return nil
}

type harness struct {
	t     *testing.T
	cfg   config.Monitor
	clock *loop.ManualClock
	loop  *loop.Loop
	clip  *fakeClip
	keys  *fakeKeys
	ind   *feedback.Recorder
	st    *State
	p     *Pipeline
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		cfg:   config.Default(),
		clock: &loop.ManualClock{},
		clip:  &fakeClip{snap: clip.Snapshot{Version: 1, Text: "A"}},
		keys:  &fakeKeys{},
		ind:   &feedback.Recorder{},
	}
	h.loop = loop.New(h.clock, 64)
	h.st = NewState(true, h.cfg.MinDragDistance)
	h.p = New(h.cfg, h.st, Deps{
		Loop:      h.loop,
		Clipboard: h.clip,
		Injector:  h.keys,
		Indicator: h.ind,
	})
	h.p.Start()
	h.loop.Drain()
	h.ind.Reset()
	return h
}

func (h *harness) press(x, y float64) {
	h.p.Dispatch(input.Event{Kind: input.Press, X: x, Y: y, Clicks: 1})
	h.loop.Drain()
}

func (h *harness) release(x, y float64, clicks int) {
	h.p.Dispatch(input.Event{Kind: input.Release, X: x, Y: y, Clicks: clicks})
	h.loop.Drain()
}

// advance steps the clock a millisecond at a time so work scheduled by a
// fired continuation can itself come due within d.
func (h *harness) advance(d time.Duration) {
	for step := time.Duration(0); step < d; step += time.Millisecond {
		h.clock.Advance(time.Millisecond)
		h.loop.Drain()
	}
}

func (h *harness) drag() {
	h.press(0, 0)
	h.release(0, 10, 1)
}

func (h *harness) setEnabled(on bool) {
	h.loop.Post(func() { h.p.setEnabled(on) })
	h.loop.Drain()
}

func TestStartSeedsLastCopied(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, "A", h.st.lastCopied)
}

func TestDragConfirms(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("B") }

	h.drag()
	require.Equal(t, 0, h.keys.copies, "copy must wait for the drag delay")

	h.advance(h.cfg.DragDelay)
	require.Equal(t, 1, h.keys.copies)
	require.Equal(t, 0, h.ind.Flashes(), "verification must wait")

	h.advance(h.cfg.VerificationDelay)
	require.Equal(t, 1, h.ind.Flashes())
	require.Equal(t, "B", h.st.lastCopied)
	require.Equal(t, uint64(1), h.st.stats.Confirmations)
	require.False(t, h.st.busy)
}

func TestMultiClickUsesLongerDelay(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("word") }

	h.press(100, 100)
	h.release(100, 100, 2)

	h.advance(h.cfg.DragDelay)
	require.Equal(t, 0, h.keys.copies)
	h.advance(h.cfg.MultiClickDelay - h.cfg.DragDelay)
	require.Equal(t, 1, h.keys.copies)

	h.advance(h.cfg.VerificationDelay)
	require.Equal(t, "word", h.st.lastCopied)
}

func TestShortDragDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.press(0, 0)
	h.release(0, 3, 1)
	h.advance(time.Second)
	require.Equal(t, 0, h.keys.copies)
	require.Equal(t, 0, h.clock.Pending())
	require.Equal(t, uint64(0), h.st.stats.Gestures)
}

func TestVerificationOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		onCopy  func(c *fakeClip)
		last    string
		flashes int
		want    string
	}{
		{"version unchanged", func(*fakeClip) {}, "", 0, ""},
		{"empty text", func(c *fakeClip) { c.set("") }, "", 0, ""},
		{"duplicate of last copied", func(c *fakeClip) { c.set("A") }, "A", 0, "A"},
		{"new text", func(c *fakeClip) { c.set("B") }, "A", 1, "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.st.lastCopied = tt.last
			h.keys.onCopy = func() { tt.onCopy(h.clip) }

			h.drag()
			h.advance(h.cfg.DragDelay + h.cfg.VerificationDelay)

			require.Equal(t, tt.flashes, h.ind.Flashes())
			require.Equal(t, tt.want, h.st.lastCopied)
		})
	}
}

func TestUnchangedLeavesClipboardAlone(t *testing.T) {
	h := newHarness(t)
	h.drag()
	h.advance(h.cfg.DragDelay + h.cfg.VerificationDelay)
	require.Equal(t, clip.Snapshot{Version: 1, Text: "A"}, h.clip.snap)
	require.Equal(t, uint64(1), h.st.stats.Unchanged)
}

func TestFlashReverts(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("B") }
	h.drag()
	h.advance(h.cfg.DragDelay + h.cfg.VerificationDelay)
	require.Equal(t, []string{"flash"}, h.ind.Calls())

	h.advance(h.cfg.FlashDuration)
	require.Equal(t, []string{"flash", "enabled"}, h.ind.Calls())
}

func TestDisabledIsNoop(t *testing.T) {
	h := newHarness(t)
	h.setEnabled(false)
	reads := h.clip.reads

	h.press(0, 0)
	h.release(0, 100, 1)
	h.press(5, 5)
	h.release(5, 5, 3)
	h.advance(time.Second)

	require.Equal(t, 0, h.keys.copies)
	require.Equal(t, reads, h.clip.reads, "no snapshot while disabled")
	require.Equal(t, uint64(0), h.st.stats.Gestures)
	require.False(t, h.st.classifier.Pressed())
}

func TestToggleDropsStalePress(t *testing.T) {
	h := newHarness(t)
	h.press(0, 0)
	h.setEnabled(false)
	h.setEnabled(true)
	h.release(0, 100, 1)
	h.advance(time.Second)

	require.Equal(t, 0, h.keys.copies)
	require.Equal(t, uint64(0), h.st.stats.Gestures)
}

func TestDisableAbandonsScheduledCopy(t *testing.T) {
	h := newHarness(t)
	h.drag()
	h.setEnabled(false)
	h.advance(time.Second)

	require.Equal(t, 0, h.keys.copies)
	require.Equal(t, uint64(1), h.st.stats.Abandoned)
}

func TestDisableMidVerificationRecordsWithoutFlash(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("B") }
	h.drag()
	h.advance(h.cfg.DragDelay)
	require.Equal(t, 1, h.keys.copies)

	h.setEnabled(false)
	h.ind.Reset()
	h.advance(h.cfg.VerificationDelay)

	require.Equal(t, "B", h.st.lastCopied)
	require.Equal(t, 0, h.ind.Flashes())
}

func TestToggleKeepsInjectedCycleBusy(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("B") }
	h.drag()
	h.advance(h.cfg.DragDelay)
	require.Equal(t, 1, h.keys.copies)

	h.setEnabled(false)
	h.setEnabled(true)
	require.True(t, h.st.busy)

	// The first check is still pending; this gesture must not start a
	// second, overlapping cycle.
	h.keys.onCopy = func() { h.clip.set("C") }
	h.drag()
	require.Equal(t, uint64(1), h.st.stats.Ignored)

	h.advance(time.Second)
	require.Equal(t, 1, h.keys.copies)
	require.Equal(t, uint64(1), h.st.stats.Confirmations)
	require.Equal(t, uint64(0), h.st.stats.Duplicates)
	require.Equal(t, "B", h.st.lastCopied)
	require.False(t, h.st.busy)

	h.drag()
	h.advance(time.Second)
	require.Equal(t, 2, h.keys.copies)
	require.Equal(t, "C", h.st.lastCopied)
	require.Equal(t, uint64(2), h.st.stats.Confirmations)
}

func TestToggleFreesScheduledCycle(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("B") }
	h.drag()
	h.setEnabled(false)
	h.setEnabled(true)
	require.False(t, h.st.busy)

	h.drag()
	h.advance(time.Second)
	require.Equal(t, 1, h.keys.copies)
	require.Equal(t, uint64(1), h.st.stats.Abandoned)
	require.Equal(t, "B", h.st.lastCopied)
}

func TestPressDuringCycleIgnored(t *testing.T) {
	h := newHarness(t)
	h.keys.onCopy = func() { h.clip.set("B") }
	h.drag()

	// Second gesture while the first is still pending.
	h.press(0, 0)
	h.release(0, 50, 1)
	require.Equal(t, uint64(1), h.st.stats.Ignored)

	h.advance(time.Second)
	require.Equal(t, 1, h.keys.copies)
	require.Equal(t, uint64(1), h.st.stats.Gestures)

	// Once verified, gestures are accepted again.
	h.keys.onCopy = func() { h.clip.set("C") }
	h.drag()
	h.advance(time.Second)
	require.Equal(t, 2, h.keys.copies)
	require.Equal(t, "C", h.st.lastCopied)
}

func TestInjectionFailureEndsCycle(t *testing.T) {
	h := newHarness(t)
	h.keys.err = errors.New("no display")
	h.drag()
	h.advance(time.Second)
	require.False(t, h.st.busy)
	require.Equal(t, uint64(0), h.st.stats.Copies)
	require.Equal(t, 0, h.clock.Pending())
}

func TestNoteRearm(t *testing.T) {
	h := newHarness(t)
	h.p.NoteRearm()
	h.loop.Drain()
	require.Equal(t, uint64(1), h.st.stats.Rearms)
}

func TestControlMethodsOnRunningLoop(t *testing.T) {
	st := NewState(true, 8)
	l := loop.New(loop.SystemClock{}, 16)
	ind := &feedback.Recorder{}
	p := New(config.Default(), st, Deps{Loop: l, Clipboard: &fakeClip{}, Injector: &fakeKeys{}, Indicator: ind})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	on, err := p.Toggle(ctx)
	require.NoError(t, err)
	require.False(t, on)

	on, err = p.SetEnabled(ctx, true)
	require.NoError(t, err)
	require.True(t, on)

	s, err := p.Status(ctx)
	require.NoError(t, err)
	require.True(t, s.Enabled)
	require.Equal(t, "fake", s.Clipboard)
	require.Contains(t, ind.Calls(), "tooltip:autocopy: off")
}
