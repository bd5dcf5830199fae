package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"goxmv"
	"goxmv/heuristic"
)

type simulateOptions struct {
	steps      int
	constraint string
	heuristic  string
	seed       int64
	timeout    time.Duration

	jsonOut bool
	full    bool
	parse   bool
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	o := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate <model.smv>",
		Short: "Run a guided simulation of a model",
		Long: `simulate loads a model, picks an initial state satisfying the
constraint, then repeatedly steps the simulation, resolving each
branching point with the selected heuristic. The resulting trace is
printed even when the run is cut short by an error or interrupt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, root, o, args[0])
		},
	}

	f := cmd.Flags()
	f.IntVarP(&o.steps, "steps", "s", 10, "number of simulation steps, 0 for unbounded")
	f.StringVarP(&o.constraint, "constraint", "c", "", "constraint on picked states (default TRUE)")
	f.StringVar(&o.heuristic, "heuristic", string(heuristic.Random), `branch choice heuristic: "random" or "user"`)
	f.Int64Var(&o.seed, "seed", -1, "random heuristic seed, negative for time-based")
	f.DurationVar(&o.timeout, "timeout", 0, "per-step deadline, 0 for none")
	f.BoolVar(&o.jsonOut, "json", false, "emit the trace as JSON")
	f.BoolVar(&o.full, "full", false, "fold step deltas into complete states")
	f.BoolVar(&o.parse, "parse", false, "coerce values to booleans and numbers")
	return cmd
}

func runSimulate(cmd *cobra.Command, root *rootOptions, o *simulateOptions, model string) error {
	if heuristic.Kind(o.heuristic) == heuristic.Interactive && !isatty.IsTerminal(os.Stdin.Fd()) {
		return errors.New("the user heuristic needs a terminal on stdin")
	}
	h, err := heuristic.New(heuristic.Kind(o.heuristic), o.seed, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	d, err := openDriver(ctx, root, model)
	if err != nil {
		return err
	}
	defer d.Close()

	init, err := d.InitSimulation(ctx, h, o.constraint, o.timeout)
	if err != nil {
		return err
	}
	states, _, stepErr := d.Simulate(ctx, h, o.steps, o.constraint, o.timeout)

	trace := goxmv.Trace{
		Description: "Simulation Trace",
		Type:        "Simulation",
		States:      append([]goxmv.State{init}, states...),
	}
	if err := printTrace(cmd, trace, o); err != nil {
		return err
	}
	// The partial trace is already flushed; now surface what cut it short.
	return stepErr
}

func printTrace(cmd *cobra.Command, trace goxmv.Trace, o *simulateOptions) error {
	if !o.jsonOut {
		for _, line := range trace.Lines(o.full, o.parse) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	}

	var payload any = trace
	if o.parse {
		payload = struct {
			Description string           `json:"description"`
			Type        string           `json:"type"`
			States      []map[string]any `json:"states"`
			LoopIndexes []int            `json:"loop_indexes"`
		}{trace.Description, trace.Type, trace.ParsedStates(o.full), trace.LoopIndexes}
	} else if o.full {
		trace.States = trace.FullStates()
		payload = trace
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
