package goxmv

// Heuristic selects one state among candidate states enumerated by the
// engine during simulation. Implementations must return an index in
// [0, len(candidates)); the candidates are raw state chunks as captured
// from the transcript.
//
// The interface is defined here, on the consumer side; the heuristic
// package provides the built-in strategies.
type Heuristic interface {
	ChooseFrom(candidates []string) int
}
