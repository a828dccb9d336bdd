// Package ipc provides helpers for the local control channel used by CLI
// tools (status/enable/disable/toggle) to talk to a running autocopy daemon.
//
// The channel is a Unix domain socket (a named pipe on Windows) carrying
// both gRPC and plain HTTP/JSON, see internal/control.
package ipc

import (
	"context"
	"net"
	"os"
	"runtime"
)

// SocketPath returns the platform-appropriate path for the control socket.
//
//   - Linux:   $XDG_RUNTIME_DIR/autocopy.sock, else $TMPDIR/autocopy.sock
//   - macOS:   $TMPDIR/autocopy.sock
//   - Windows: \\.\pipe\autocopy
//
// $AUTOCOPY_SOCKET overrides all of them.
func SocketPath() string {
	if s := os.Getenv("AUTOCOPY_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// Listen creates a listener on path, removing a stale socket file left by
// a crashed run first.
func Listen(path string) (net.Listener, error) {
	if runtime.GOOS != "windows" {
		_ = os.Remove(path)
	}
	return listenIPC(path)
}

// Dial connects to the daemon listening on path.
func Dial(ctx context.Context, path string) (net.Conn, error) {
	return dialIPC(ctx, path)
}

// IsRunning reports whether a daemon appears to be listening on path. It
// does a cheap dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	c, err := Dial(context.Background(), path)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}
