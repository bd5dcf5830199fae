package nuxmv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goxmv"
)

// pick is a heuristic fixed on one index.
type pick int

func (p pick) ChooseFrom([]string) int { return int(p) }

const candidatesOut = `AVAILABLE STATES:
================= State =================
0) -------------------------
  x = 0
  y = FALSE
================= State =================
1) -------------------------
  x = 1
`

func TestSplitCandidates(t *testing.T) {
	got := splitCandidates(candidatesOut)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "x = 0")
	assert.Contains(t, got[1], "x = 1")

	assert.Nil(t, splitCandidates("no states here\n"))
}

func TestStripCandidateHeader(t *testing.T) {
	got := stripCandidateHeader("\n1) -------------------------\n  x = 1\n")
	assert.Equal(t, "x = 1", got)

	// A block without the banner passes through trimmed.
	assert.Equal(t, "x = 1", stripCandidateHeader("  x = 1\n"))
}

func TestInitSimulation(t *testing.T) {
	d, f := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_pick_state -c "x > 0" -v -i`, out: candidatesOut},
		step{cmd: "1"},
	)

	state, err := d.InitSimulation(context.Background(), pick(1), "x > 0", 0)
	require.NoError(t, err)
	assert.Equal(t, goxmv.State{"x": "1"}, state)
	assert.True(t, d.SymbolicReady())
	assert.Equal(t, "1", f.sent[len(f.sent)-1])
}

func TestInitSimulationDefaultsConstraintToTrue(t *testing.T) {
	d, _ := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_pick_state -c "TRUE" -v -i`, out: candidatesOut},
		step{cmd: "0"},
	)

	state, err := d.InitSimulation(context.Background(), pick(0), "", 0)
	require.NoError(t, err)
	assert.Equal(t, goxmv.State{"x": "0", "y": "FALSE"}, state)
}

func TestInitSimulationNoCandidates(t *testing.T) {
	d, _ := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_pick_state -c "TRUE" -v -i`, out: "nothing enumerable\n"},
	)

	_, err := d.InitSimulation(context.Background(), pick(0), "", 0)
	require.ErrorIs(t, err, goxmv.ErrParse)
}

func TestInitSimulationChoiceOutOfRange(t *testing.T) {
	d, _ := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_pick_state -c "TRUE" -v -i`, out: candidatesOut},
	)

	_, err := d.InitSimulation(context.Background(), pick(7), "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heuristic chose 7")
}

func TestStepSimulation(t *testing.T) {
	d, _ := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_simulate -i -a -k 1 -c "TRUE"`, out: candidatesOut},
		step{cmd: "0", out: "Simulation is SAT\n"},
		step{cmd: `msat_simulate -i -a -k 1 -c "TRUE"`, out: candidatesOut},
		step{cmd: "0", out: ""},
	)
	ctx := context.Background()

	state, sat, err := d.StepSimulation(ctx, pick(0), "", 0)
	require.NoError(t, err)
	assert.True(t, sat)
	assert.Equal(t, goxmv.State{"x": "0", "y": "FALSE"}, state)

	_, sat, err = d.StepSimulation(ctx, pick(0), "", 0)
	require.NoError(t, err)
	assert.False(t, sat, "missing SAT marker means the path is exhausted")
}

func TestSimulateBounded(t *testing.T) {
	d, _ := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_simulate -i -a -k 1 -c "TRUE"`, out: candidatesOut},
		step{cmd: "0", out: "Simulation is SAT\n"},
		step{cmd: `msat_simulate -i -a -k 1 -c "TRUE"`, out: candidatesOut},
		step{cmd: "1", out: "Simulation is SAT\n"},
	)

	states, sat, err := d.Simulate(context.Background(), stepper{0, 1}.next(), 2, "", 0)
	require.NoError(t, err)
	assert.True(t, sat)
	require.Len(t, states, 2)
	assert.Equal(t, goxmv.State{"x": "0", "y": "FALSE"}, states[0])
	assert.Equal(t, goxmv.State{"x": "1"}, states[1])
}

func TestSimulateStopsWhenUnsat(t *testing.T) {
	d, _ := newTestDriver(t,
		step{cmd: "go_msat"},
		step{cmd: `msat_simulate -i -a -k 1 -c "TRUE"`, out: candidatesOut},
		step{cmd: "0", out: "Simulation is SAT\n"},
		step{cmd: `msat_simulate -i -a -k 1 -c "TRUE"`, out: candidatesOut},
		step{cmd: "0", out: ""},
	)

	states, sat, err := d.Simulate(context.Background(), pick(0), 10, "", 0)
	require.NoError(t, err)
	assert.False(t, sat)
	assert.Len(t, states, 2, "the final unsat step still contributes its state")
}

func TestSimulateCancelled(t *testing.T) {
	d, _ := newTestDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	states, _, err := d.Simulate(ctx, pick(0), 3, "", 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, states)
}

// stepper yields a scripted sequence of choices.
type stepper []int

func (s stepper) next() goxmv.Heuristic {
	i := 0
	return choiceFunc(func() int {
		c := s[i%len(s)]
		i++
		return c
	})
}

type choiceFunc func() int

func (f choiceFunc) ChooseFrom([]string) int { return f() }
