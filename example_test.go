package goxmv_test

import (
	"fmt"

	"goxmv"
)

func ExampleParseOutcomes() {
	report := "-- specification  G (x < 10)  is true\n"
	outcomes, err := goxmv.ParseOutcomes(report)
	if err != nil {
		panic(err)
	}
	fmt.Println(outcomes[0].Message())
	// Output: VERIFICATION SUCCESSFUL for G (x < 10) (specification)
}

func ExampleTrace_FullStates() {
	trace, err := goxmv.NewTraceFromStates([]string{
		"x = 0\ny = TRUE\n",
		"x = 1\n",
	}, "Simulation", "demo")
	if err != nil {
		panic(err)
	}
	full := trace.FullStates()
	fmt.Println(full[1]["x"], full[1]["y"])
	// Output: 1 TRUE
}
