package session_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goxmv"
	"goxmv/enginetest"
	"goxmv/session"
)

func attach(t *testing.T, script ...enginetest.Exchange) (*session.Session, *enginetest.Engine) {
	t.Helper()
	engine := enginetest.New(script...)
	s, err := session.Attach(engine)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		_ = engine.Close()
	})
	return s, engine
}

func TestSendAndAwaitPrompt(t *testing.T) {
	s, engine := attach(t, enginetest.Exchange{
		Expect: "go",
		Reply:  enginetest.PromptAfter("ok\n"),
	})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "go"))
	out, err := s.AwaitPrompt(ctx, time.Second)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.NotContains(t, out, "go", "the command echo must not leak into the transcript")

	assert.Zero(t, engine.Remaining())
	assert.Empty(t, engine.Unexpected())
}

func TestAwaitRegex(t *testing.T) {
	s, _ := attach(t, enginetest.Exchange{
		Expect: "msat_pick_state -v -i",
		Reply:  "candidates here\nChoose a state from the above (0-3): ",
	})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "msat_pick_state -v -i"))
	out, err := s.Await(ctx, time.Second,
		session.Regex(regexp.MustCompile(`Choose a state from the above \(0-[0-9]+\): `)))
	require.NoError(t, err)
	assert.Contains(t, out, "candidates here")
}

func TestAwaitConfirmPrompt(t *testing.T) {
	s, _ := attach(t, enginetest.Exchange{
		Expect: "msat_simulate -i -a -k 1",
		Reply:  "one candidate\nThere's only one available state. Press Return to Proceed.",
	})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "msat_simulate -i -a -k 1"))
	out, err := s.Await(ctx, time.Second,
		session.Exact("There's only one available state. Press Return to Proceed."))
	require.NoError(t, err)
	assert.Contains(t, out, "one candidate")
}

func TestAwaitTimeoutInterruptsAndRecovers(t *testing.T) {
	s, engine := attach(t, enginetest.Exchange{
		Expect: "go",
		Reply:  enginetest.PromptAfter(""),
	})
	ctx := context.Background()

	_, err := s.Await(ctx, 50*time.Millisecond, session.Exact("never-appears"))
	require.ErrorIs(t, err, goxmv.ErrTimeout)
	assert.Equal(t, 1, engine.Interrupts())

	// The session stays usable after a timeout.
	require.NoError(t, s.Send(ctx, "go"))
	_, err = s.AwaitPrompt(ctx, time.Second)
	require.NoError(t, err)
}

func TestAwaitContextCancelled(t *testing.T) {
	s, engine := attach(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Await(ctx, 0, session.Exact("never-appears"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, engine.Interrupts())
}

func TestFaultScan(t *testing.T) {
	s, _ := attach(t, enginetest.Exchange{
		Expect: "go",
		Reply:  enginetest.PromptAfter("line 7: TYPE ERROR near token\nmore output\n"),
	})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "go"))
	_, err := s.AwaitPrompt(ctx, time.Second)
	fe, ok := goxmv.AsFault(err)
	require.True(t, ok, "expected a fault, got %v", err)
	assert.Equal(t, []string{"line 7: TYPE ERROR near token"}, fe.Lines)
}

func TestPreconditionScan(t *testing.T) {
	s, _ := attach(t, enginetest.Exchange{
		Expect: "check_ltlspec",
		Reply:  enginetest.PromptAfter("The boolean model must be built before.\n"),
	})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "check_ltlspec"))
	_, err := s.AwaitPrompt(ctx, time.Second)
	pe, ok := goxmv.AsPrecondition(err)
	require.True(t, ok, "expected a precondition, got %v", err)
	assert.Equal(t, goxmv.PreconditionBooleanModel, pe.Kind)
}

func TestEchoIsNotFaultScanned(t *testing.T) {
	// The command text itself contains a fatal fragment; the reflection
	// of our own input must not be treated as engine output.
	s, _ := attach(t, enginetest.Exchange{
		Expect: `add_property -l -p "TYPE ERROR"`,
		Reply:  enginetest.PromptAfter(""),
	})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, `add_property -l -p "TYPE ERROR"`))
	_, err := s.AwaitPrompt(ctx, time.Second)
	require.NoError(t, err)
}

func TestStreamEndIsAFault(t *testing.T) {
	s, engine := attach(t)
	require.NoError(t, engine.Close())

	_, err := s.Await(context.Background(), time.Second, session.Exact("anything"))
	fe, ok := goxmv.AsFault(err)
	require.True(t, ok, "expected a fault, got %v", err)
	assert.NotEmpty(t, fe.Lines)
}

func TestCloseIdempotent(t *testing.T) {
	engine := enginetest.New()
	s, err := session.Attach(engine)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
