//go:build darwin

package clip

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
//
// NSInteger autocopy_change_count() {
//     return [[NSPasteboard generalPasteboard] changeCount];
// }
import "C"

import (
	"log/slog"

	"golang.design/x/clipboard"
)

type darwinBackend struct{}

// newNative returns the macOS pasteboard backend. NSPasteboard's
// changeCount is the native version counter.
func newNative() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed, trying pbpaste", "err", err)
		if b, cliErr := newCLI(); cliErr == nil {
			return b
		}
		return newHeadless()
	}
	return &darwinBackend{}
}

func (b *darwinBackend) Name() string { return "macOS NSPasteboard" }

func (b *darwinBackend) Snapshot() Snapshot {
	return Snapshot{
		Version: uint64(C.autocopy_change_count()),
		Text:    string(clipboard.Read(clipboard.FmtText)),
	}
}

func (b *darwinBackend) Close() {}
