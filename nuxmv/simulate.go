package nuxmv

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"goxmv"
	"goxmv/session"
)

// Candidate-state enumeration markers.
const (
	stateSeparator = "================= State ================="
	satMarker      = "Simulation is SAT"
)

var (
	// The engine asks for a choice with one of two sub-prompts: a
	// numbered choice, or an auto-confirm when only one state exists.
	choicePrompt  = session.Regex(regexp.MustCompile(`Choose a state from the above \(0-[0-9]+\): `))
	confirmPrompt = session.Exact("There's only one available state. Press Return to Proceed.")

	candidateHeader = regexp.MustCompile(`[0-9]+\) -------------------------`)
)

// InitSimulation enumerates the initial states satisfying constraint,
// lets the heuristic choose one, commits the choice, and returns the
// committed state. An empty constraint means TRUE.
func (d *Driver) InitSimulation(ctx context.Context, h goxmv.Heuristic, constraint string, timeout time.Duration) (goxmv.State, error) {
	if err := d.ensureMode(ctx, modeSymbolic); err != nil {
		return nil, err
	}
	cmd := fmt.Sprintf(`msat_pick_state -c "%s" -v -i`, orTrue(constraint))
	chosen, _, err := d.pickCandidate(ctx, h, cmd, timeout)
	if err != nil {
		return nil, err
	}
	state, _, err := goxmv.ParseState(chosen)
	return state, err
}

// StepSimulation runs one bounded simulation step from the current
// state. The bool reports whether the extended path is still
// satisfiable; when false the caller must stop stepping.
func (d *Driver) StepSimulation(ctx context.Context, h goxmv.Heuristic, constraint string, timeout time.Duration) (goxmv.State, bool, error) {
	if err := d.ensureMode(ctx, modeSymbolic); err != nil {
		return nil, false, err
	}
	cmd := fmt.Sprintf(`msat_simulate -i -a -k 1 -c "%s"`, orTrue(constraint))
	chosen, confirm, err := d.pickCandidate(ctx, h, cmd, timeout)
	if err != nil {
		return nil, false, err
	}
	state, _, err := goxmv.ParseState(chosen)
	if err != nil {
		return nil, false, err
	}
	return state, strings.Contains(confirm, satMarker), nil
}

// Simulate steps the simulation up to steps times (0 = unbounded),
// collecting the committed state of each step. The states captured so
// far are returned even when a step fails or ctx is cancelled, so
// callers can flush a partial trace.
func (d *Driver) Simulate(ctx context.Context, h goxmv.Heuristic, steps int, constraint string, timeout time.Duration) ([]goxmv.State, bool, error) {
	var states []goxmv.State
	for i := 0; steps == 0 || i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return states, true, err
		}
		state, sat, err := d.StepSimulation(ctx, h, constraint, timeout)
		if err != nil {
			return states, true, err
		}
		states = append(states, state)
		if !sat {
			return states, false, nil
		}
	}
	return states, true, nil
}

// pickCandidate drives one candidate-selection exchange: send cmd,
// await a selection sub-prompt, parse the candidate blocks, apply the
// heuristic, and commit the chosen index. It returns the chosen block
// (header stripped) and the confirmation transcript.
func (d *Driver) pickCandidate(ctx context.Context, h goxmv.Heuristic, cmd string, timeout time.Duration) (string, string, error) {
	out, err := d.withRecovery(ctx, modeSymbolic, func(ctx context.Context) (string, error) {
		if err := d.conv.Send(ctx, cmd); err != nil {
			return "", err
		}
		return d.conv.Await(ctx, timeout, choicePrompt, confirmPrompt)
	})
	if err != nil {
		return "", "", err
	}

	candidates := splitCandidates(out)
	if len(candidates) == 0 {
		return "", "", fmt.Errorf("%w: no candidate states in transcript", goxmv.ErrParse)
	}
	choice := h.ChooseFrom(candidates)
	if choice < 0 || choice >= len(candidates) {
		return "", "", fmt.Errorf("nuxmv: heuristic chose %d of %d candidates", choice, len(candidates))
	}
	chosen := stripCandidateHeader(candidates[choice])

	if err := d.conv.Send(ctx, strconv.Itoa(choice)); err != nil {
		return "", "", err
	}
	confirm, err := d.conv.AwaitPrompt(ctx, timeout)
	if err != nil {
		return "", "", err
	}
	return chosen, confirm, nil
}

func splitCandidates(out string) []string {
	parts := strings.Split(out, stateSeparator)
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

// stripCandidateHeader removes the leading "N) ----…" banner from a
// candidate block.
func stripCandidateHeader(block string) string {
	if loc := candidateHeader.FindStringIndex(block); loc != nil {
		block = block[:loc[0]] + block[loc[1]:]
	}
	return strings.TrimSpace(block)
}

func orTrue(constraint string) string {
	if constraint == "" {
		return "TRUE"
	}
	return constraint
}
