// Package pipeline wires input events to gesture classification, the
// synthetic copy, clipboard verification, and confirmation feedback.
//
// All state lives on one loop.Loop. The only entry point called from
// another goroutine is Dispatch, which checks the enabled gate and posts.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.klb.dev/autocopy/internal/clip"
	"go.klb.dev/autocopy/internal/config"
	"go.klb.dev/autocopy/internal/feedback"
	"go.klb.dev/autocopy/internal/gesture"
	"go.klb.dev/autocopy/internal/input"
	"go.klb.dev/autocopy/internal/keys"
	"go.klb.dev/autocopy/internal/loop"
)

// Deps are the pipeline's collaborators.
type Deps struct {
	Loop      *loop.Loop
	Clipboard clip.Backend
	Injector  keys.Injector
	Indicator feedback.Indicator
	// Now defaults to time.Now.
	Now func() time.Time
}

// Pipeline is the selection-to-clipboard state machine.
type Pipeline struct {
	cfg  config.Monitor
	st   *State
	loop *loop.Loop
	clip clip.Backend
	keys keys.Injector
	ind  feedback.Indicator
	now  func() time.Time

	flash loop.Timer
}

// New returns a pipeline over st. Call Start once the loop is running.
func New(cfg config.Monitor, st *State, d Deps) *Pipeline {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	ind := d.Indicator
	if ind == nil {
		ind = feedback.LogIndicator{}
	}
	return &Pipeline{
		cfg:  cfg,
		st:   st,
		loop: d.Loop,
		clip: d.Clipboard,
		keys: d.Injector,
		ind:  ind,
		now:  now,
	}
}

// Start seeds LastCopied with whatever is already on the clipboard, so that
// re-copying it does not flash, and shows the initial indicator state.
func (p *Pipeline) Start() {
	p.loop.Post(func() {
		p.st.lastCopied = p.clip.Snapshot().Text
		p.showState()
	})
}

// Dispatch is the input.Handler. It runs on the hook delivery goroutine:
// it checks the gate and posts, nothing more.
func (p *Pipeline) Dispatch(ev input.Event) {
	if !p.st.Enabled() {
		return
	}
	p.loop.Post(func() { p.handle(ev) })
}

// NoteRearm counts a hook re-arm. Safe from any goroutine.
func (p *Pipeline) NoteRearm() {
	p.loop.Post(func() { p.st.stats.Rearms++ })
}

func (p *Pipeline) handle(ev input.Event) {
	// Re-checked here: the flag may have flipped after Dispatch posted.
	if !p.st.Enabled() {
		return
	}
	pt := gesture.Point{X: ev.X, Y: ev.Y}
	switch ev.Kind {
	case input.Press:
		if p.st.busy {
			// One cycle at a time; the matching release becomes stray.
			p.st.stats.Ignored++
			slog.Debug("press ignored, copy cycle in flight")
			return
		}
		p.st.classifier.Press(pt)
	case input.Release:
		kind := p.st.classifier.Release(pt, ev.Clicks)
		if kind == gesture.None {
			return
		}
		p.st.stats.Gestures++
		slog.Debug("selection gesture", "kind", kind, "clicks", ev.Clicks)
		p.schedule(kind)
	}
}

func (p *Pipeline) delayFor(kind gesture.Kind) time.Duration {
	if kind == gesture.MultiClickSelect {
		return p.cfg.MultiClickDelay
	}
	return p.cfg.DragDelay
}

func (p *Pipeline) schedule(kind gesture.Kind) {
	p.st.busy = true
	p.st.injected = false
	epoch := p.st.epoch
	p.loop.After(p.delayFor(kind), func() { p.copy(epoch) })
}

// copy snapshots the clipboard, injects the copy chord, and schedules the
// verification.
func (p *Pipeline) copy(epoch uint64) {
	if epoch != p.st.epoch {
		p.st.stats.Abandoned++
		return
	}
	before := p.clip.Snapshot()
	if err := p.keys.Copy(); err != nil {
		slog.Warn("copy keystroke failed", "err", err)
		p.st.busy = false
		return
	}
	p.st.injected = true
	p.st.stats.Copies++
	p.loop.After(p.cfg.VerificationDelay, func() { p.verify(before) })
}

// verify always runs to completion, even after a toggle: the keystroke is
// already out, so LastCopied must track what it produced. The cycle stays
// busy until here, so no second check can overlap it. Only the flash is
// suppressed while disabled.
func (p *Pipeline) verify(before clip.Snapshot) {
	after := p.clip.Snapshot()
	p.st.busy = false
	p.st.injected = false

	o := Decide(before, after, p.st.lastCopied)
	logOutcome(o, after.Text)
	switch o {
	case Unchanged:
		// Nothing was selected; the user's clipboard is untouched.
		p.st.stats.Unchanged++
	case Empty:
		p.st.stats.Empty++
	case Duplicate:
		p.st.stats.Duplicates++
	case Confirmed:
		p.st.lastCopied = after.Text
		p.st.stats.Confirmations++
		p.st.stats.LastConfirmed = p.now()
		if p.st.Enabled() {
			p.flashConfirmation()
		}
	}
}

func (p *Pipeline) flashConfirmation() {
	if p.flash != nil {
		p.flash.Stop()
	}
	p.ind.FlashConfirmation()
	p.flash = p.loop.After(p.cfg.FlashDuration, func() {
		p.flash = nil
		p.ind.SetEnabled(p.st.Enabled())
	})
}

func (p *Pipeline) showState() {
	on := p.st.Enabled()
	p.ind.SetEnabled(on)
	p.ind.SetTooltip(feedback.Tooltip(on))
}

// setEnabled flips the gate. Any recorded press is dropped and a scheduled
// copy goes stale, so a press from before a toggle can never pair with a
// release after it. A copy already injected keeps the cycle busy until it
// is verified.
func (p *Pipeline) setEnabled(on bool) bool {
	if p.st.Enabled() == on {
		return on
	}
	p.st.enabled.Store(on)
	p.st.epoch++
	p.st.classifier.Reset()
	if !p.st.injected {
		p.st.busy = false
	}
	if p.flash != nil {
		p.flash.Stop()
		p.flash = nil
	}
	p.showState()
	slog.Info("autocopy toggled", "enabled", on)
	return on
}

// Status is a point-in-time view of the pipeline.
type Status struct {
	Enabled   bool
	Busy      bool
	Clipboard string
	Stats     Stats
}

func (p *Pipeline) status() Status {
	return Status{
		Enabled:   p.st.Enabled(),
		Busy:      p.st.busy,
		Clipboard: p.clip.Name(),
		Stats:     p.st.stats,
	}
}

// Status returns the current status, read on the loop.
func (p *Pipeline) Status(ctx context.Context) (Status, error) {
	var st Status
	err := p.loop.Do(ctx, func() { st = p.status() })
	return st, err
}

// SetEnabled sets the gate on the loop and returns the new state.
func (p *Pipeline) SetEnabled(ctx context.Context, on bool) (bool, error) {
	var got bool
	err := p.loop.Do(ctx, func() { got = p.setEnabled(on) })
	return got, err
}

// Toggle inverts the gate on the loop and returns the new state.
func (p *Pipeline) Toggle(ctx context.Context) (bool, error) {
	var got bool
	err := p.loop.Do(ctx, func() { got = p.setEnabled(!p.st.Enabled()) })
	return got, err
}
