// Command goxmv drives the nuXmv model checker: guided simulation and
// property verification over an interactive engine session.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"goxmv"
)

// Process exit codes. The timeout code follows the coreutils timeout(1)
// convention; interrupted follows the 128+SIGINT shell convention.
const (
	exitSuccess      = 0
	exitInconclusive = 5
	exitInternal     = 6
	exitFailed       = 10
	exitTimeout      = 124
	exitInterrupted  = 130
)

// Sentinels mapping verification verdicts onto exit codes.
var (
	errFailed       = errors.New("verification failed")
	errInconclusive = errors.New("verification inconclusive")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		os.Exit(exitSuccess)
	}
	fmt.Fprintln(os.Stderr, "goxmv:", err)
	os.Exit(exitCode(ctx, err))
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case errors.Is(err, goxmv.ErrTimeout):
		return exitTimeout
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return exitInterrupted
	case errors.Is(err, errFailed):
		return exitFailed
	case errors.Is(err, errInconclusive):
		return exitInconclusive
	default:
		return exitInternal
	}
}
