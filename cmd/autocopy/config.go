package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/autocopy/internal/config"
	"go.klb.dev/autocopy/internal/ipc"
	"go.klb.dev/autocopy/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and AUTOCOPY_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → AUTOCOPY_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("autocopy")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/autocopy/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "autocopy"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("AUTOCOPY")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for service, debug for interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addSocketFlag adds the --socket flag to a command.
func addSocketFlag(cmd *cobra.Command) {
	cmd.Flags().String("socket", ipc.SocketPath(), "control socket path")
}

// addMonitorFlags adds the detection tunables.
func addMonitorFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()
	f.Float64("min-drag-distance", d.MinDragDistance, "smallest drag, in points, that counts as a selection")
	f.Duration("multi-click-delay", d.MultiClickDelay, "wait after a double/triple click before copying")
	f.Duration("drag-delay", d.DragDelay, "wait after a drag before copying")
	f.Duration("verification-delay", d.VerificationDelay, "wait after the copy keystroke before checking the clipboard")
	f.Duration("flash-duration", d.FlashDuration, "how long the copied indicator stays up")
}

// monitorConfig reads the detection tunables from v.
func monitorConfig(v *viper.Viper) (config.Monitor, error) {
	m := config.Monitor{
		MinDragDistance:   v.GetFloat64("min-drag-distance"),
		MultiClickDelay:   v.GetDuration("multi-click-delay"),
		DragDelay:         v.GetDuration("drag-delay"),
		VerificationDelay: v.GetDuration("verification-delay"),
		FlashDuration:     v.GetDuration("flash-duration"),
	}
	return m, m.Validate()
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}
