package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"goxmv"
	"goxmv/nuxmv"
)

type verifyOptions struct {
	property string
	bound    int
	bmc      bool
	ic3      bool
	timeout  time.Duration

	jsonOut bool
	full    bool
	parse   bool
}

func (o *verifyOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.property, "property", "p", "", "property expression (default: all properties in the model)")
	f.IntVarP(&o.bound, "bound", "k", 0, "search depth bound")
	f.DurationVar(&o.timeout, "timeout", 0, "verification deadline, 0 for none")
	f.BoolVar(&o.jsonOut, "json", false, "emit outcomes as JSON")
	f.BoolVar(&o.full, "full", false, "fold counterexample deltas into complete states")
	f.BoolVar(&o.parse, "parse", false, "coerce counterexample values to booleans and numbers")
}

func newVerifyTemporalCmd(root *rootOptions) *cobra.Command {
	o := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify-temporal <model.smv>",
		Short: "Check LTL properties of a model",
		Long: `verify-temporal checks the model's temporal properties. The default
engine is BDD-based; --ic3 selects the incremental inductive engine and
--bmc selects bounded model checking (which requires --bound).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := nuxmv.CheckLTL
			switch {
			case o.bmc && o.ic3:
				return errors.New("--bmc and --ic3 are mutually exclusive")
			case o.bmc:
				kind = nuxmv.CheckBMC
			case o.ic3:
				kind = nuxmv.CheckLTLIC3
			}
			return runVerify(cmd, root, o, kind, args[0])
		},
	}
	o.bind(cmd)
	cmd.Flags().BoolVar(&o.bmc, "bmc", false, "use bounded model checking (requires --bound)")
	cmd.Flags().BoolVar(&o.ic3, "ic3", false, "use the IC3 engine")
	return cmd
}

func newVerifyInvariantCmd(root *rootOptions) *cobra.Command {
	o := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify-invariant <model.smv>",
		Short: "Check properties as invariants with the IC3 engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, root, o, nuxmv.CheckInvarIC3, args[0])
		},
	}
	o.bind(cmd)
	return cmd
}

func runVerify(cmd *cobra.Command, root *rootOptions, o *verifyOptions, kind nuxmv.PropertyKind, model string) error {
	ctx := cmd.Context()
	d, err := openDriver(ctx, root, model)
	if err != nil {
		return err
	}
	defer d.Close()

	out, err := d.RunProperty(ctx, kind, o.bound, o.property, o.timeout)
	if err != nil {
		return err
	}
	outcomes, err := goxmv.ParseOutcomes(out)
	if err != nil {
		return err
	}
	if err := printOutcomes(cmd, outcomes, o); err != nil {
		return err
	}
	return worstVerdict(outcomes)
}

func printOutcomes(cmd *cobra.Command, outcomes []goxmv.Outcome, o *verifyOptions) error {
	if o.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}
	for _, oc := range outcomes {
		fmt.Fprintln(cmd.OutOrStdout(), oc.Message())
		if oc.Trace != nil {
			for _, line := range oc.Trace.Lines(o.full, o.parse) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		}
	}
	return nil
}

// worstVerdict folds the outcomes into the process verdict: any false
// property fails the run, otherwise any unknown (or an empty report)
// leaves it inconclusive.
func worstVerdict(outcomes []goxmv.Outcome) error {
	if len(outcomes) == 0 {
		return fmt.Errorf("%w: engine reported no outcomes", errInconclusive)
	}
	unknown := false
	for _, o := range outcomes {
		switch o.Verdict {
		case goxmv.VerdictFalse:
			return fmt.Errorf("%w: %s", errFailed, o.Specification)
		case goxmv.VerdictUnknown:
			unknown = true
		}
	}
	if unknown {
		return errInconclusive
	}
	return nil
}
