//go:build windows

package clip

import (
	"log/slog"

	"golang.design/x/clipboard"
	"golang.org/x/sys/windows"
)

var procGetClipboardSequenceNumber = windows.NewLazySystemDLL("user32.dll").NewProc("GetClipboardSequenceNumber")

type windowsBackend struct{}

// newNative returns the Windows clipboard backend. The clipboard sequence
// number is the native version counter.
func newNative() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
		return newHeadless()
	}
	if err := procGetClipboardSequenceNumber.Find(); err != nil {
		slog.Warn("GetClipboardSequenceNumber unavailable", "err", err)
		return newHeadless()
	}
	return &windowsBackend{}
}

func (b *windowsBackend) Name() string { return "Windows Clipboard" }

func (b *windowsBackend) Snapshot() Snapshot {
	seq, _, _ := procGetClipboardSequenceNumber.Call()
	return Snapshot{
		Version: uint64(seq),
		Text:    string(clipboard.Read(clipboard.FmtText)),
	}
}

func (b *windowsBackend) Close() {}
