package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"goxmv/nuxmv"
	"goxmv/session"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	binary string
	faults string
	debug  bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "goxmv",
		Short: "Drive the nuXmv model checker",
		Long: `goxmv drives the nuXmv model checker through an interactive session:
load a model, simulate it step by step under constraints, and verify
temporal or invariant properties.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.binary, "binary", session.DefaultBinary, "engine executable name or path")
	pf.StringVar(&o.faults, "faults", "", "YAML file overriding the engine fault-phrase table")
	pf.BoolVar(&o.debug, "debug", false, "log the engine conversation to stderr")

	cmd.AddCommand(
		newSimulateCmd(o),
		newVerifyTemporalCmd(o),
		newVerifyInvariantCmd(o),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) logger() *slog.Logger {
	if !o.debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openDriver starts an engine session per the persistent flags and loads
// the model. The caller owns the returned driver and must Close it.
func openDriver(ctx context.Context, o *rootOptions, model string) (*nuxmv.Driver, error) {
	logger := o.logger()

	sessOpts := []session.Option{
		session.WithBinary(o.binary),
		session.WithLogger(logger),
	}
	if o.faults != "" {
		table, err := session.LoadFaultTable(o.faults)
		if err != nil {
			return nil, err
		}
		sessOpts = append(sessOpts, session.WithFaultTable(table))
	}

	sess, err := session.Start(sessOpts...)
	if err != nil {
		return nil, err
	}
	d, err := nuxmv.NewDriver(ctx, sess, nuxmv.WithLogger(logger))
	if err != nil {
		_ = sess.Close()
		return nil, err
	}
	if err := d.SetModel(ctx, model); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
