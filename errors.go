package goxmv

import (
	"errors"
	"strings"
)

// Sentinel errors for engine interaction.
var (
	// ErrToolNotFound indicates the engine executable is not on the
	// search path. Fatal: there is nothing to retry.
	ErrToolNotFound = errors.New("goxmv: engine executable not found")

	// ErrTimeout indicates an await exceeded its deadline. The in-flight
	// engine computation was interrupted but the session remains usable;
	// the caller decides whether to abort or continue.
	ErrTimeout = errors.New("goxmv: engine response timed out")

	// ErrParse indicates a transcript did not have the expected shape.
	// Parse errors always propagate; they are never degraded to a
	// partial result.
	ErrParse = errors.New("goxmv: malformed engine output")
)

// PreconditionKind distinguishes the recoverable engine preconditions.
type PreconditionKind string

const (
	// PreconditionBooleanModel means the model has not been compiled to
	// boolean form yet. Remediation: build_boolean_model.
	PreconditionBooleanModel PreconditionKind = "boolean_model"

	// PreconditionAnalysisMode means the engine has not been switched
	// into the analysis mode the command requires. Remediation: the
	// mode's warm-up command.
	PreconditionAnalysisMode PreconditionKind = "analysis_mode"
)

// PreconditionError is a recoverable engine precondition detected in a
// transcript. The command layer remediates it and retries the triggering
// command exactly once; a second occurrence propagates as *FaultError.
type PreconditionError struct {
	Kind PreconditionKind
	Line string // the transcript line that matched
}

func (e *PreconditionError) Error() string {
	return "goxmv: engine precondition (" + string(e.Kind) + "): " + e.Line
}

// FaultError is a non-recoverable fatal condition reported by the engine.
// It carries only the transcript lines that matched a fatal phrase, never
// the full transcript.
type FaultError struct {
	Lines []string
}

func (e *FaultError) Error() string {
	return "goxmv: engine fault: " + strings.Join(e.Lines, "; ")
}

// AsPrecondition extracts a *PreconditionError from an error chain.
// Convenience wrapper around errors.As.
func AsPrecondition(err error) (*PreconditionError, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsFault extracts a *FaultError from an error chain.
// Convenience wrapper around errors.As.
func AsFault(err error) (*FaultError, bool) {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
