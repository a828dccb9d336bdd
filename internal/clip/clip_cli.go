package clip

import (
	"errors"
	"log/slog"

	"github.com/atotto/clipboard"
)

// errNoCLI is returned when none of the clipboard tools atotto/clipboard
// shells out to (pbpaste, xclip, xsel, wl-paste, ...) is installed.
var errNoCLI = errors.New("no clipboard command-line tool available")

type cliBackend struct {
	version textVersion
}

func newCLI() (Backend, error) {
	if clipboard.Unsupported {
		return nil, errNoCLI
	}
	return &cliBackend{}, nil
}

func (b *cliBackend) Name() string { return "clipboard CLI tools" }

func (b *cliBackend) Snapshot() Snapshot {
	text, err := clipboard.ReadAll()
	if err != nil {
		slog.Debug("clipboard read failed", "err", err)
		text = ""
	}
	return b.version.observe(text)
}

func (b *cliBackend) Close() {}
