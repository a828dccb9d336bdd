//go:build !windows

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/autocopy/internal/clip"
	"go.klb.dev/autocopy/internal/config"
	"go.klb.dev/autocopy/internal/control"
	"go.klb.dev/autocopy/internal/loop"
	"go.klb.dev/autocopy/internal/pipeline"
)

type nopInjector struct{}

func (nopInjector) Copy() error { return nil }

func newRunningPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	backend, err := clip.New(clip.ModeHeadless)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	l := loop.New(loop.SystemClock{}, 16)
	go l.Run(ctx)

	p := pipeline.New(config.Default(), pipeline.NewState(true, 8), pipeline.Deps{
		Loop:      l,
		Clipboard: backend,
		Injector:  nopInjector{},
	})
	p.Start()
	return p
}

func TestServeControl(t *testing.T) {
	p := newRunningPipeline(t)
	path := filepath.Join(t.TempDir(), "c.sock")

	srv, err := serveControl(path, p)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	client, conn, err := control.Dial(path)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	on, err := client.SetEnabled(ctx, false)
	require.NoError(t, err)
	require.False(t, on)

	st, err := p.Status(ctx)
	require.NoError(t, err)
	require.False(t, st.Enabled)
}

func TestServeControlRefusesSecondDaemon(t *testing.T) {
	p := newRunningPipeline(t)
	path := filepath.Join(t.TempDir(), "c.sock")

	srv, err := serveControl(path, p)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	_, err = serveControl(path, p)
	require.ErrorContains(t, err, "another daemon")
}
