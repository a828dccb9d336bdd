//go:build linux

package input

import (
	"errors"
	"os"
)

// checkAccess requires an X11 display: libuiohook hooks through XRecord.
func checkAccess() error {
	if os.Getenv("DISPLAY") == "" {
		return errors.New("no X11 display ($DISPLAY unset)")
	}
	return nil
}
