// Package heuristic provides the built-in state-selection strategies for
// guided simulation: seeded random choice and interactive prompting.
//
// The strategy set is closed: new strategies are added here as new Kind
// values rather than through open subclassing elsewhere.
package heuristic

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"goxmv"
)

// Kind names a built-in strategy.
type Kind string

const (
	// Random picks uniformly among candidates with a seeded PRNG.
	Random Kind = "random"
	// Interactive prompts a human for the choice.
	Interactive Kind = "user"
)

// New builds a strategy by kind. seed only affects Random; pass a
// negative seed to derive one from the wall clock. Interactive reads
// from in and prompts on out.
func New(kind Kind, seed int64, in io.Reader, out io.Writer) (goxmv.Heuristic, error) {
	switch kind {
	case Random:
		return NewRandom(seed), nil
	case Interactive:
		return NewInteractive(in, out), nil
	default:
		return nil, fmt.Errorf("heuristic: unknown kind %q", kind)
	}
}

// RandomChoice selects a candidate uniformly at random.
type RandomChoice struct {
	rng *rand.Rand
}

// NewRandom returns a RandomChoice seeded with seed, or with the current
// wall-clock time when seed is negative.
func NewRandom(seed int64) *RandomChoice {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomChoice{rng: rand.New(rand.NewSource(seed))}
}

// ChooseFrom returns a uniform index in [0, len(candidates)).
func (r *RandomChoice) ChooseFrom(candidates []string) int {
	if len(candidates) == 0 {
		return 0
	}
	return r.rng.Intn(len(candidates))
}

// InteractiveChoice asks a human to pick a candidate, re-prompting on
// non-numeric or out-of-range input.
type InteractiveChoice struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive returns an InteractiveChoice reading replies from in and
// writing prompts to out.
func NewInteractive(in io.Reader, out io.Writer) *InteractiveChoice {
	return &InteractiveChoice{in: bufio.NewReader(in), out: out}
}

// ChooseFrom prompts until it reads a valid index. A zero-length
// candidate list returns 0 without prompting.
func (u *InteractiveChoice) ChooseFrom(candidates []string) int {
	bound := len(candidates)
	if bound == 0 {
		return 0
	}
	for {
		fmt.Fprintf(u.out, "Choose a state (0-%d): ", bound-1)
		line, err := u.in.ReadString('\n')
		if err != nil && line == "" {
			// Input exhausted; fall back to the first candidate
			// rather than prompting forever.
			return 0
		}
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && choice >= 0 && choice < bound {
			return choice
		}
		if err != nil {
			return 0
		}
	}
}
