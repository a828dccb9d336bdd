// autocopy: copy selected text automatically.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/autocopy/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "autocopy",
		Short: "Copy selected text automatically",
		Long: `autocopy watches global mouse activity and, when you finish a text
selection (drag, double-click word, triple-click line), sends the platform
copy shortcut for you. It only reports success when the clipboard really
received new text; dragging over a scrollbar or window frame leaves the
clipboard untouched.

Run "autocopy run" as a background service. Use "autocopy status",
"autocopy enable", "autocopy disable" and "autocopy toggle" to control a
running daemon over its local socket.

Config file search order (first found wins):
  /etc/autocopy/autocopy.toml
  $HOME/.config/autocopy/autocopy.toml
  path supplied via --config

All flags can be set via AUTOCOPY_<FLAG> env vars or config-file keys.
See "autocopy run --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newSetEnabledCmd("enable", "Enable automatic copying", true),
		newSetEnabledCmd("disable", "Disable automatic copying", false),
		newToggleCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autocopy %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" && interactive {
		level = slog.LevelDebug
	}
	logging.Setup(format, level)
}
