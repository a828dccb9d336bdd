//go:build darwin

package input

// #cgo LDFLAGS: -framework ApplicationServices
// #include <ApplicationServices/ApplicationServices.h>
import "C"

import "errors"

// checkAccess reports whether the process may install a global event tap.
// It does not prompt; the permission dialog belongs to the caller.
func checkAccess() error {
	if C.AXIsProcessTrusted() == 0 {
		return errors.New("accessibility access not granted (System Settings → Privacy & Security → Accessibility)")
	}
	return nil
}
