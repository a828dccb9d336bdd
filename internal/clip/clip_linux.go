//go:build linux

package clip

import (
	"log/slog"

	"golang.design/x/clipboard"
)

type linuxBackend struct {
	version textVersion
}

// newNative returns the Linux clipboard backend, the CLI-tool backend if
// there is no X11 connection (Wayland-only sessions), or a headless no-op
// backend on a server without a display. clipboard.Init is called here
// rather than in init() so that CLI sub-commands don't trigger the warning.
func newNative() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, trying CLI tools", "err", err)
		if b, cliErr := newCLI(); cliErr == nil {
			return b
		}
		slog.Warn("no clipboard tools found, running headless")
		return newHeadless()
	}
	return &linuxBackend{}
}

func (b *linuxBackend) Name() string { return "Linux clipboard" }

func (b *linuxBackend) Snapshot() Snapshot {
	return b.version.observe(string(clipboard.Read(clipboard.FmtText)))
}

func (b *linuxBackend) Close() {}
