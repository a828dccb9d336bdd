//go:build !darwin && !windows && !linux

package clip

// newNative falls back to the CLI tools, then to headless, on platforms
// without a native backend.
func newNative() Backend {
	if b, err := newCLI(); err == nil {
		return b
	}
	return newHeadless()
}
