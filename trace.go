package goxmv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Engine transcript markers for trace payloads.
const (
	traceDescriptionLabel = "Trace Description:"
	traceTypeLabel        = "Type:"
	loopMarker            = "-- Loop starts here"
	stateSeparator        = "->"
)

// State maps variable names to the literal string values the engine
// reported for one simulation or counterexample step. Depending on its
// source a State may be a delta (changed variables only) or full.
type State map[string]string

// Trace is an ordered sequence of states with loop-start annotations.
// An index i in LoopIndexes means the loop marker was reported in state
// i's block: the repeating suffix begins at the following state. An
// empty LoopIndexes set denotes a finite path.
type Trace struct {
	Description string  `json:"description"`
	Type        string  `json:"type"`
	States      []State `json:"states"`
	LoopIndexes []int   `json:"loop_indexes"`
}

// parseStateCache memoizes ParseState results. Candidate states are
// re-enumerated on every simulation step, so identical chunks recur.
var parseStateCache = newFIFOCache[string, parsedChunk](256)

type parsedChunk struct {
	state    State
	loopNext bool
}

// ParseState parses one state chunk into a State. Lines have the form
// "name = value"; comment lines ("--") are skipped. The second result
// reports whether the chunk carried the loop marker, meaning the next
// state begins a repeating suffix.
func ParseState(text string) (State, bool, error) {
	if hit, ok := parseStateCache.get(text); ok {
		return hit.state.clone(), hit.loopNext, nil
	}

	state := State{}
	loopNext := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "--") {
			if strings.HasPrefix(line, loopMarker) {
				loopNext = true
			}
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			return nil, false, fmt.Errorf("%w: state line %q has no assignment", ErrParse, line)
		}
		state[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	parseStateCache.put(text, parsedChunk{state: state.clone(), loopNext: loopNext})
	return state, loopNext, nil
}

func (s State) clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ParseTrace parses a trace payload from an engine transcript: the
// "Trace Description:" and "Type:" labels followed by "-> State: i.j <-"
// blocks of assignments.
func ParseTrace(text string) (Trace, error) {
	start := strings.Index(text, traceDescriptionLabel)
	if start < 0 {
		return Trace{}, fmt.Errorf("%w: no %q label", ErrParse, traceDescriptionLabel)
	}
	body := text[start:]

	chunks := strings.Split(body, stateSeparator)
	header, chunks := chunks[0], chunks[1:]

	headerLines := strings.SplitN(header, "\n", 3)
	if len(headerLines) < 2 {
		return Trace{}, fmt.Errorf("%w: trace header is truncated", ErrParse)
	}
	descr := strings.TrimSpace(strings.TrimPrefix(headerLines[0], traceDescriptionLabel))
	_, typ, found := strings.Cut(headerLines[1], traceTypeLabel)
	if !found {
		return Trace{}, fmt.Errorf("%w: no %q label", ErrParse, traceTypeLabel)
	}

	// Each chunk reads "State: 1.2 <-" followed by assignment lines;
	// everything up to the "<-" arrow is the state header.
	stateTexts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		_, rest, found := strings.Cut(c, "<-")
		if !found {
			return Trace{}, fmt.Errorf("%w: state block has no closing arrow", ErrParse)
		}
		stateTexts = append(stateTexts, rest)
	}

	states, loops, err := parseStateTexts(stateTexts)
	if err != nil {
		return Trace{}, err
	}
	return Trace{
		Description: descr,
		Type:        strings.TrimSpace(typ),
		States:      states,
		LoopIndexes: loops,
	}, nil
}

// NewTraceFromStates builds a Trace from raw state chunks captured during
// simulation, e.g. the committed candidates of successive steps.
func NewTraceFromStates(chunks []string, typ, descr string) (Trace, error) {
	states, loops, err := parseStateTexts(chunks)
	if err != nil {
		return Trace{}, err
	}
	return Trace{Description: descr, Type: typ, States: states, LoopIndexes: loops}, nil
}

func parseStateTexts(texts []string) ([]State, []int, error) {
	states := make([]State, 0, len(texts))
	var loops []int
	for i, t := range texts {
		s, loopNext, err := ParseState(t)
		if err != nil {
			return nil, nil, fmt.Errorf("state %d: %w", i, err)
		}
		states = append(states, s)
		if loopNext {
			loops = append(loops, i)
		}
	}
	return states, loops, nil
}

// FullStates folds the per-step deltas left to right: element i is the
// union of States[0..i] with later values overriding earlier ones. The
// engine reports only changed variables on intermediate steps, so this
// reconstructs the complete assignment at each step.
func (t Trace) FullStates() []State {
	out := make([]State, 0, len(t.States))
	accum := State{}
	for _, s := range t.States {
		for k, v := range s {
			accum[k] = v
		}
		out = append(out, accum.clone())
	}
	return out
}

// coerceCache memoizes value coercion across states.
var coerceCache = newFIFOCache[string, any](64)

// CoerceValue converts a literal engine value for display: TRUE/FALSE
// become bool, integer literals int64, other numerics float64, anything
// else stays a string. Stored raw values are never mutated.
func CoerceValue(v string) any {
	if hit, ok := coerceCache.get(v); ok {
		return hit
	}
	parsed := coerce(v)
	coerceCache.put(v, parsed)
	return parsed
}

func coerce(v string) any {
	switch v {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// ParsedStates returns the trace's states with display coercion applied.
// With full set, deltas are folded first (see FullStates).
func (t Trace) ParsedStates(full bool) []map[string]any {
	src := t.States
	if full {
		src = t.FullStates()
	}
	out := make([]map[string]any, 0, len(src))
	for _, s := range src {
		parsed := make(map[string]any, len(s))
		for k, v := range s {
			parsed[k] = CoerceValue(v)
		}
		out = append(out, parsed)
	}
	return out
}

// Lines renders the trace as human-readable report lines. Variables are
// listed in sorted order to keep output deterministic.
func (t Trace) Lines(full, parsed bool) []string {
	lines := []string{
		"Trace Description: " + orNA(t.Description),
		"Trace Type: " + orNA(t.Type),
	}
	if parsed {
		for i, s := range t.ParsedStates(full) {
			lines = append(lines, fmt.Sprintf("  -> State: 1.%d <-", i))
			for _, k := range sortedKeys(s) {
				lines = append(lines, fmt.Sprintf("    %s = %v", k, s[k]))
			}
		}
		return lines
	}
	src := t.States
	if full {
		src = t.FullStates()
	}
	for i, s := range src {
		lines = append(lines, fmt.Sprintf("  -> State: 1.%d <-", i))
		for _, k := range sortedKeys(s) {
			lines = append(lines, fmt.Sprintf("    %s = %s", k, s[k]))
		}
	}
	return lines
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
