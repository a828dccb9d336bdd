package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.klb.dev/autocopy/internal/control"
	"go.klb.dev/autocopy/internal/feedback"
	"go.klb.dev/autocopy/internal/ipc"
)

const requestTimeout = 5 * time.Second

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon state and counters",
		Long: `Queries a running autocopy daemon over its control socket.

The same data is available as JSON over HTTP on the socket:
  curl --unix-socket "$(autocopy status --print-socket)" http://autocopy/v1/status`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v.GetBool("print-socket") {
				fmt.Fprintln(cmd.OutOrStdout(), v.GetString("socket"))
				return nil
			}
			return runStatus(cmd.OutOrStdout(), v)
		},
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	f.Bool("print-socket", false, "print the control socket path and exit")
	addSocketFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func newSetEnabledCmd(use, short string, on bool) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(v, func(ctx context.Context, c *control.Client) error {
				got, err := c.SetEnabled(ctx, on)
				if err != nil {
					return fmt.Errorf("%s: %w", use, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), feedback.Tooltip(got))
				return nil
			})
		},
	}
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func newToggleCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:     "toggle",
		Short:   "Flip automatic copying on or off",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(v, func(ctx context.Context, c *control.Client) error {
				got, err := c.Toggle(ctx)
				if err != nil {
					return fmt.Errorf("toggle: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), feedback.Tooltip(got))
				return nil
			})
		},
	}
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

// withClient dials the daemon's control socket and runs fn with a bounded
// request context.
func withClient(v *viper.Viper, fn func(context.Context, *control.Client) error) error {
	path := v.GetString("socket")
	if !ipc.IsRunning(path) {
		return fmt.Errorf("no autocopy daemon listening on %s", path)
	}
	client, conn, err := control.Dial(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return fn(ctx, client)
}

func runStatus(w io.Writer, v *viper.Viper) error {
	return withClient(v, func(ctx context.Context, c *control.Client) error {
		st, err := c.Status(ctx)
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		if v.GetBool("json") {
			b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}
		printStatus(w, st)
		return nil
	})
}

func printStatus(out io.Writer, st *structpb.Struct) {
	w := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	m := st.AsMap()

	state := "off"
	if on, _ := m["enabled"].(bool); on {
		state = "on"
	}
	fmt.Fprintf(w, "State:\t%s\n", state)
	fmt.Fprintf(w, "Version:\t%v\n", m["version"])
	fmt.Fprintf(w, "Clipboard:\t%v\n", m["clipboard"])
	fmt.Fprintf(w, "Uptime:\t%v\n", m["uptime"])
	if last, _ := m["last_confirmed"].(string); last != "" {
		fmt.Fprintf(w, "Last copy:\t%s\n", last)
	}
	fmt.Fprintln(w)

	stats, _ := m["stats"].(map[string]any)
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s:\t%v\n", k, stats[k])
	}
	_ = w.Flush()
}

