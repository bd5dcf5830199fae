package session

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"goxmv"
)

// FaultTable is the set of phrase fragments that mark an engine
// transcript as failed. The list grows as new fatal conditions are
// discovered, so it is configuration data rather than code: load site
// overrides with LoadFaultTable.
//
// BooleanModel and AnalysisMode denote recoverable preconditions (the
// command layer remediates them once); every Fatal fragment match is a
// non-recoverable fault.
type FaultTable struct {
	BooleanModel string   `yaml:"boolean_model"`
	AnalysisMode string   `yaml:"analysis_mode"`
	Fatal        []string `yaml:"fatal"`
}

// DefaultFaultTable returns the built-in phrase table.
func DefaultFaultTable() *FaultTable {
	return &FaultTable{
		BooleanModel: "The boolean model must be built before.",
		AnalysisMode: "The model must be built before.",
		Fatal: []string{
			"A model must be read before.",
			"illegal operand types",
			"Impossible to build a BDD FSM with infinite precision variables",
			"Nested next operator",
			"No trace: constraint and initial state are inconsistent",
			"not well typed",
			"TYPE ERROR",
			"Type System Violation detected",
			"unexpected expression encountered during parsing",
			"You must set the input file before.",
		},
	}
}

// LoadFaultTable reads a YAML fault table from path. Fields absent from
// the file keep their built-in defaults; a "fatal" list in the file
// replaces the default list entirely.
func LoadFaultTable(path string) (*FaultTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read fault table: %w", err)
	}
	t := DefaultFaultTable()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("session: parse fault table %s: %w", path, err)
	}
	return t, nil
}

// Scan checks a transcript for known fatal conditions. It returns a
// *goxmv.PreconditionError for the recoverable fragments, a
// *goxmv.FaultError carrying only the matching lines for any other
// fragment match, or nil.
func (t *FaultTable) Scan(transcript string) error {
	if t.BooleanModel != "" && strings.Contains(transcript, t.BooleanModel) {
		return &goxmv.PreconditionError{
			Kind: goxmv.PreconditionBooleanModel,
			Line: matchingLine(transcript, t.BooleanModel),
		}
	}
	if t.AnalysisMode != "" && strings.Contains(transcript, t.AnalysisMode) {
		return &goxmv.PreconditionError{
			Kind: goxmv.PreconditionAnalysisMode,
			Line: matchingLine(transcript, t.AnalysisMode),
		}
	}

	var lines []string
	for _, line := range strings.Split(transcript, "\n") {
		for _, fragment := range t.Fatal {
			if strings.Contains(line, fragment) {
				lines = append(lines, strings.TrimSpace(line))
				break
			}
		}
	}
	if len(lines) > 0 {
		return &goxmv.FaultError{Lines: lines}
	}
	return nil
}

func matchingLine(transcript, fragment string) string {
	for _, line := range strings.Split(transcript, "\n") {
		if strings.Contains(line, fragment) {
			return strings.TrimSpace(line)
		}
	}
	return fragment
}
