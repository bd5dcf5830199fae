package goxmv

import (
	"fmt"
	"sort"
	"strings"
)

// Verdict is the three-valued result of one property check.
type Verdict string

const (
	VerdictTrue    Verdict = "SUCCESSFUL"
	VerdictFalse   Verdict = "FAILED"
	VerdictUnknown Verdict = "INCONCLUSIVE"
)

// Verdict marker phrases as the engine prints them.
var verdictPhrases = []string{"is true", "is false", "is unknown"}

// Outcome is one checked property's result. Trace is present if and only
// if Verdict is VerdictFalse. Unparsed holds the raw transcript slice the
// outcome was derived from; it is dropped from the JSON encoding.
type Outcome struct {
	Logic         string  `json:"logic"`
	Specification string  `json:"specification"`
	Verdict       Verdict `json:"verdict"`
	Trace         *Trace  `json:"trace,omitempty"`
	Unparsed      string  `json:"-"`
}

// Message returns a one-line human-readable summary.
func (o Outcome) Message() string {
	return fmt.Sprintf("VERIFICATION %s for %s (%s)", o.Verdict, o.Specification, o.Logic)
}

// ParseOutcomes extracts every property report from a transcript.
//
// Each report is delimited by walking backward from a verdict phrase
// ("is true" / "is false" / "is unknown") to the nearest preceding
// comment-line start. Blocks are contiguous, ordered by first appearance
// and non-overlapping. The header line carries the logic tag, the literal
// token "specification" and the property expression; false verdicts are
// followed by a trace payload.
//
// A transcript with no verdict phrase yields an empty slice and no error.
func ParseOutcomes(text string) ([]Outcome, error) {
	var places []int
	for _, phrase := range verdictPhrases {
		at := strings.Index(text, phrase)
		for at != -1 {
			places = append(places, at)
			next := strings.Index(text[at+1:], phrase)
			if next == -1 {
				break
			}
			at += 1 + next
		}
	}
	sort.Ints(places)

	starts := make([]int, 0, len(places))
	for _, place := range places {
		start := strings.LastIndex(text[:place], "--")
		if start < 0 {
			return nil, fmt.Errorf("%w: verdict phrase with no preceding report header", ErrParse)
		}
		starts = append(starts, start)
	}

	outcomes := make([]Outcome, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		o, err := parseOutcomeBlock(text[start:end])
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func parseOutcomeBlock(block string) (Outcome, error) {
	verdict := VerdictFalse
	switch {
	case strings.Contains(block, "is true"):
		verdict = VerdictTrue
	case strings.Contains(block, "is unknown"):
		verdict = VerdictUnknown
	}

	header := block
	if nl := strings.Index(block, "\n"); nl >= 0 {
		header = block[:nl]
	}
	header = strings.TrimSpace(header)

	// Header shape: -- <logic> specification <expr> <verdict phrase>
	rest := strings.TrimSpace(strings.TrimPrefix(header, "--"))
	logic, _, found := strings.Cut(rest, " ")
	if !found {
		return Outcome{}, fmt.Errorf("%w: report header %q has no logic tag", ErrParse, header)
	}
	_, spec, found := strings.Cut(header, "specification")
	if !found {
		return Outcome{}, fmt.Errorf("%w: report header %q has no specification keyword", ErrParse, header)
	}
	for _, phrase := range verdictPhrases {
		spec = strings.ReplaceAll(spec, phrase, "")
	}
	spec = strings.TrimSpace(spec)

	o := Outcome{
		Logic:         logic,
		Specification: spec,
		Verdict:       verdict,
		Unparsed:      block,
	}
	if verdict == VerdictFalse {
		trace, err := ParseTrace(block)
		if err != nil {
			return Outcome{}, fmt.Errorf("counterexample for %q: %w", spec, err)
		}
		o.Trace = &trace
	}
	return o, nil
}
