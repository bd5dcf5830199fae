// Package goxmv turns conversations with the nuXmv model checker into
// structured verification results.
//
// nuXmv has no machine-readable protocol: it is driven through its
// interactive shell over a pseudo-terminal, and everything it reports comes
// back as free-form text. goxmv pairs a session protocol driver with a
// transcript parser so callers never touch raw terminal output.
//
// # Packages
//
//   - goxmv (this package): shared vocabulary, the [Outcome], [Trace] and
//     [State] types, the error taxonomy, and the [Heuristic] interface
//   - session: owns the engine subprocess; sends commands, awaits markers,
//     detects fatal conditions, interrupts on timeout
//   - nuxmv: the command layer for model loading, environment management,
//     property checks and guided simulation
//   - heuristic: strategies for choosing among candidate states
//
// # Quick start
//
//	sess, err := session.Start()
//	if err != nil { log.Fatal(err) }
//	defer sess.Close()
//
//	drv, err := nuxmv.NewDriver(ctx, sess)
//	if err != nil { log.Fatal(err) }
//	if err := drv.SetModel(ctx, "counter.smv"); err != nil { log.Fatal(err) }
//
//	out, err := drv.RunProperty(ctx, nuxmv.CheckLTLIC3, 0, "G x < 10", 0)
//	if err != nil { log.Fatal(err) }
//	outcomes, err := goxmv.ParseOutcomes(out)
//
// # Error taxonomy
//
// Callers map errors to process behavior with the standard errors package:
// [ErrToolNotFound] (engine missing), [ErrTimeout] (await deadline hit, the
// session survives), [PreconditionError] (recoverable, normally remediated
// inside nuxmv), [FaultError] (fatal engine condition, carries only the
// offending lines), and [ErrParse] (malformed transcript).
package goxmv

// Version is the goxmv release version, reported by "goxmv version".
const Version = "0.2.0"
