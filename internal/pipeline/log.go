package pipeline

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

const previewLen = 120

// logOutcome logs a verification at INFO for confirmations, DEBUG
// otherwise; the text preview is only ever logged at DEBUG.
func logOutcome(o Outcome, text string) {
	if o == Confirmed {
		slog.Info("selection copied", "chars", utf8.RuneCountInString(text))
	} else {
		slog.Debug("copy not confirmed", "outcome", o)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) || text == "" {
		return
	}
	slog.Debug("clipboard text", "preview", preview(text))
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	r := []rune(s)
	return string(r[:previewLen]) + "…"
}
