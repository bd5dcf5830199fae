package nuxmv

import (
	"context"
	"fmt"
	"time"

	"goxmv"
)

// engineMode identifies which analysis back-end a command requires.
type engineMode int

const (
	modeNone engineMode = iota
	modeBDD
	modeSymbolic
)

// PropertyKind selects the verification command issued by RunProperty.
type PropertyKind string

const (
	// CheckLTL is a plain temporal-property check (BDD-based).
	CheckLTL PropertyKind = "ltl"
	// CheckLTLIC3 is an incremental inductive temporal-property check.
	CheckLTLIC3 PropertyKind = "ltl-ic3"
	// CheckInvarIC3 is an incremental inductive invariant check.
	CheckInvarIC3 PropertyKind = "invar-ic3"
	// CheckBMC is bounded model checking; it requires a positive bound.
	CheckBMC PropertyKind = "bmc"
)

// RunProperty formats and runs one verification command. bound and
// property are optional except that CheckBMC requires a positive bound.
// The returned transcript is raw; parse it with goxmv.ParseOutcomes.
//
// A recoverable precondition is remediated exactly once and the command
// retried verbatim exactly once; a second occurrence propagates as a
// fault.
func (d *Driver) RunProperty(ctx context.Context, kind PropertyKind, bound int, property string, timeout time.Duration) (string, error) {
	cmd, mode, err := formatCheck(kind, bound, property)
	if err != nil {
		return "", err
	}
	return d.runChecked(ctx, mode, cmd, timeout)
}

func formatCheck(kind PropertyKind, bound int, property string) (string, engineMode, error) {
	switch kind {
	case CheckLTL:
		cmd := "check_ltlspec"
		if property != "" {
			cmd += fmt.Sprintf(` -p "%s"`, property)
		}
		return cmd, modeBDD, nil

	case CheckLTLIC3:
		cmd := "check_ltlspec_ic3"
		if bound > 0 {
			cmd += fmt.Sprintf(" -k %d", bound)
		}
		if property != "" {
			cmd += fmt.Sprintf(` -p "%s"`, property)
		}
		return cmd, modeSymbolic, nil

	case CheckInvarIC3:
		cmd := "check_property_as_invar_ic3"
		if bound > 0 {
			cmd += fmt.Sprintf(" -k %d", bound)
		}
		if property != "" {
			cmd += fmt.Sprintf(` -L "%s"`, property)
		}
		return cmd, modeSymbolic, nil

	case CheckBMC:
		if bound <= 0 {
			return "", modeNone, fmt.Errorf("nuxmv: bounded model checking requires a positive bound")
		}
		cmd := fmt.Sprintf("msat_check_ltlspec_bmc -k %d", bound)
		if property != "" {
			cmd += fmt.Sprintf(` -p "%s"`, property)
		}
		return cmd, modeSymbolic, nil
	}
	return "", modeNone, fmt.Errorf("nuxmv: unknown property kind %q", kind)
}

// ensureMode issues the mode's warm-up command unless its sticky flag
// is already set.
func (d *Driver) ensureMode(ctx context.Context, m engineMode) error {
	switch m {
	case modeBDD:
		if d.booleanReady {
			return nil
		}
	case modeSymbolic:
		if d.symbolicReady {
			return nil
		}
	default:
		return nil
	}
	return d.warmUp(ctx, m)
}

func (d *Driver) warmUp(ctx context.Context, m engineMode) error {
	switch m {
	case modeBDD:
		if _, err := d.Raw(ctx, "go", 0); err != nil {
			return err
		}
		d.booleanReady = true
	case modeSymbolic:
		if _, err := d.Raw(ctx, "go_msat", 0); err != nil {
			return err
		}
		d.symbolicReady = true
	}
	return nil
}

// runChecked is ensureMode + one attempt with the recovery protocol,
// awaiting the ready prompt.
func (d *Driver) runChecked(ctx context.Context, m engineMode, cmd string, timeout time.Duration) (string, error) {
	if err := d.ensureMode(ctx, m); err != nil {
		return "", err
	}
	return d.withRecovery(ctx, m, func(ctx context.Context) (string, error) {
		return d.Raw(ctx, cmd, timeout)
	})
}

// withRecovery implements the two-step resolver: attempt, on a
// recoverable precondition remediate then retry once, propagate on any
// further failure. A precondition on the retry converts to a fault so
// there is no open-ended retry loop.
func (d *Driver) withRecovery(ctx context.Context, m engineMode, attempt func(context.Context) (string, error)) (string, error) {
	out, err := attempt(ctx)
	if err == nil {
		return out, nil
	}
	pe, ok := goxmv.AsPrecondition(err)
	if !ok {
		return "", err
	}
	if err := d.remediate(ctx, m, pe); err != nil {
		return "", err
	}
	out, err = attempt(ctx)
	if err == nil {
		return out, nil
	}
	if again, ok := goxmv.AsPrecondition(err); ok {
		return "", &goxmv.FaultError{Lines: []string{again.Line}}
	}
	return "", err
}

func (d *Driver) remediate(ctx context.Context, m engineMode, pe *goxmv.PreconditionError) error {
	d.logger.Debug("remediating precondition", "kind", pe.Kind)
	switch pe.Kind {
	case goxmv.PreconditionBooleanModel:
		_, err := d.Raw(ctx, "build_boolean_model", 0)
		return err
	case goxmv.PreconditionAnalysisMode:
		if m == modeNone {
			m = modeBDD
		}
		return d.warmUp(ctx, m)
	}
	return fmt.Errorf("nuxmv: no remediation for precondition kind %q", pe.Kind)
}
