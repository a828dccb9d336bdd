package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/autocopy/internal/clip"
	"go.klb.dev/autocopy/internal/control"
	"go.klb.dev/autocopy/internal/feedback"
	"go.klb.dev/autocopy/internal/input"
	"go.klb.dev/autocopy/internal/ipc"
	"go.klb.dev/autocopy/internal/keys"
	"go.klb.dev/autocopy/internal/loop"
	"go.klb.dev/autocopy/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the selection monitor",
		Long: `Starts the selection monitor. Needs permission to observe global input
and post keystrokes (macOS: Accessibility; Linux: an X11 session).

Config file search order:
  /etc/autocopy/autocopy.toml
  $HOME/.config/autocopy/autocopy.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → AUTOCOPY_* env vars → flags

Editing "enabled" in the config file while the daemon runs takes effect
immediately.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runDaemon(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.Bool("enabled", true, "start with automatic copying enabled")
	f.String("clipboard-backend", clip.ModeAuto, "clipboard backend: auto|cli|headless")
	f.String("copy-chord", "", `copy keystroke, e.g. "ctrl+shift+c" (default: cmd+c on macOS, ctrl+c elsewhere)`)
	f.Bool("no-control", false, "do not serve the control socket")
	addMonitorFlags(cmd)
	addSocketFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	cfg, err := monitorConfig(v)
	if err != nil {
		return err
	}

	chord, err := keys.ParseChord(v.GetString("copy-chord"))
	if err != nil {
		return err
	}
	inj := keys.New(chord)

	backend, err := clip.New(v.GetString("clipboard-backend"))
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := loop.New(loop.SystemClock{}, loop.DefaultDepth)
	st := pipeline.NewState(v.GetBool("enabled"), cfg.MinDragDistance)
	p := pipeline.New(cfg, st, pipeline.Deps{
		Loop:      l,
		Clipboard: backend,
		Injector:  inj,
		Indicator: feedback.LogIndicator{},
	})

	slog.Info("autocopy starting",
		"version", Version,
		"clipboard", backend.Name(),
		"enabled", st.Enabled(),
		"copy_chord", inj.Chord().String(),
		"min_drag_distance", cfg.MinDragDistance,
	)

	go l.Run(ctx)
	p.Start()

	if !v.GetBool("no-control") {
		srv, err := serveControl(v.GetString("socket"), p)
		if err != nil {
			return fmt.Errorf("%w (stop the other daemon or pass --no-control)", err)
		}
		defer srv.Close()
	}

	watchConfig(ctx, v, p)

	mon := input.NewMonitor(input.NewHookSource(), p.Dispatch, input.WithRearmHook(p.NoteRearm))
	if err := mon.Run(ctx); err != nil {
		if errors.Is(err, input.ErrSubscribe) {
			return fmt.Errorf("%w (grant input monitoring/accessibility permission and restart)", err)
		}
		return err
	}
	slog.Info("autocopy stopped")
	return nil
}

// serveControl starts the control server on path. A live daemon already on
// the socket is an error: two monitors would both inject every copy.
func serveControl(path string, ctl control.Controller) (*control.Server, error) {
	if ipc.IsRunning(path) {
		return nil, fmt.Errorf("another daemon is listening on %s", path)
	}
	srv, err := control.NewServer(control.NewService(ctl, Version))
	if err != nil {
		return nil, err
	}
	ln, err := ipc.Listen(path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	slog.Info("control socket listening", "path", path)
	go func() {
		if err := srv.Serve(ln); err != nil {
			slog.Error("control server failed", "err", err)
		}
	}()
	return srv, nil
}

type enabledSetter interface {
	SetEnabled(ctx context.Context, on bool) (bool, error)
}

// enabledReloader applies edits of the "enabled" key in the config file.
// Only a change of the key's value counts; rewriting the file for another
// key, or removing "enabled", leaves the runtime flag alone so a "disable"
// from the control socket sticks.
type enabledReloader struct {
	path  string
	set   enabledSetter
	last  bool
	known bool
}

func newEnabledReloader(path string, set enabledSetter) *enabledReloader {
	r := &enabledReloader{path: path, set: set}
	if on, ok, err := readEnabled(path); err == nil {
		r.last, r.known = on, ok
	}
	return r
}

// reload re-reads the file and reports whether the flag was applied.
func (r *enabledReloader) reload(ctx context.Context) (bool, error) {
	on, ok, err := readEnabled(r.path)
	if err != nil {
		return false, err
	}
	// A file caught mid-write may lack the key; keep the last value seen.
	if !ok || (r.known && r.last == on) {
		return false, nil
	}
	r.last, r.known = on, true
	if _, err := r.set.SetEnabled(ctx, on); err != nil {
		r.known = false
		return false, err
	}
	return true, nil
}

// readEnabled reads "enabled" from the file alone, ignoring flags and env.
func readEnabled(path string) (on, set bool, err error) {
	fv := viper.New()
	fv.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		fv.SetConfigType("toml")
	}
	if err := fv.ReadInConfig(); err != nil {
		return false, false, fmt.Errorf("config: %w", err)
	}
	return fv.GetBool("enabled"), fv.InConfig("enabled"), nil
}

// watchConfig applies edits of the "enabled" key while running.
func watchConfig(ctx context.Context, v *viper.Viper, set enabledSetter) {
	path := v.ConfigFileUsed()
	if path == "" {
		return
	}
	r := newEnabledReloader(path, set)
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		applied, err := r.reload(reqCtx)
		if err != nil {
			slog.Warn("config reload: could not apply enabled", "err", err)
			return
		}
		if applied {
			slog.Info("config reloaded", "file", e.Name, "enabled", r.last)
		} else {
			slog.Debug("config reloaded, enabled unchanged", "file", e.Name)
		}
	})
	v.WatchConfig()
}
