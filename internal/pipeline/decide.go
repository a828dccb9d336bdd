package pipeline

import "go.klb.dev/autocopy/internal/clip"

// Outcome is the verdict of one copy verification.
type Outcome int

const (
	// Unchanged: the version did not move, nothing was selected.
	Unchanged Outcome = iota
	// Empty: the clipboard changed but holds no text.
	Empty
	// Duplicate: the new text is what we last confirmed.
	Duplicate
	// Confirmed: genuinely new text arrived.
	Confirmed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Empty:
		return "empty"
	case Duplicate:
		return "duplicate"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Decide compares the snapshots taken around a synthetic copy.
func Decide(before, after clip.Snapshot, lastCopied string) Outcome {
	switch {
	case !before.Changed(after):
		return Unchanged
	case after.Text == "":
		return Empty
	case after.Text == lastCopied:
		return Duplicate
	default:
		return Confirmed
	}
}
