// Package enginetest provides a scripted in-memory stand-in for the
// verification engine. An Engine implements io.ReadWriteCloser and can
// be handed to session.Attach, so the session and command layers are
// exercised without a real engine binary on the machine.
//
// The fake speaks the same conversational shape as the real engine: it
// reflects each received command line (the session synchronizes on that
// reflection), then plays the scripted reply for it. Interrupt control
// bytes are swallowed and counted.
package enginetest

import (
	"fmt"
	"io"
	"sync"

	"goxmv/session"
)

// Prompt is the ready prompt the fake engine emits. It matches the
// session default so tests rarely need to override anything.
const Prompt = session.DefaultPrompt

const banner = "*** fake engine ***\n"

// Exchange scripts one command/reply pair. Reply is written verbatim
// after the command reflection; include the ready prompt in it when the
// session is expected to reach quiescence.
type Exchange struct {
	Expect string
	Reply  string
}

// PromptAfter is a convenience for replies that end at the ready prompt.
func PromptAfter(output string) string { return output + Prompt }

// Engine is the scripted fake. Create it with New; it is ready for
// session.Attach immediately (the banner and initial prompt are already
// queued).
type Engine struct {
	pr *io.PipeReader
	pw *io.PipeWriter

	outc   chan string
	closed chan struct{}
	once   sync.Once

	mu         sync.Mutex
	script     []Exchange
	lineBuf    []byte
	interrupts int
	unexpected []string
}

// New returns a fake engine that will play the given exchanges in order
// of arrival of their Expect lines.
func New(script ...Exchange) *Engine {
	e := &Engine{
		outc:   make(chan string, 64),
		closed: make(chan struct{}),
		script: script,
	}
	e.pr, e.pw = io.Pipe()
	go e.replier()
	e.emit(banner + Prompt)
	return e
}

// replier serializes all engine output onto the pipe. A dedicated
// goroutine is required because pipe writes block until the session
// side reads.
func (e *Engine) replier() {
	for {
		select {
		case s := <-e.outc:
			if _, err := io.WriteString(e.pw, s); err != nil {
				return
			}
		case <-e.closed:
			e.pw.Close()
			return
		}
	}
}

func (e *Engine) emit(s string) {
	select {
	case e.outc <- s:
	case <-e.closed:
	}
}

func (e *Engine) Read(p []byte) (int, error) { return e.pr.Read(p) }

// Write receives session input byte by byte: interrupt bytes are
// counted and dropped, completed lines are reflected and answered from
// the script.
func (e *Engine) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range p {
		switch b {
		case 0x03:
			e.interrupts++
		case '\n':
			line := string(e.lineBuf)
			e.lineBuf = e.lineBuf[:0]
			e.handleLine(line)
		default:
			e.lineBuf = append(e.lineBuf, b)
		}
	}
	return len(p), nil
}

// handleLine reflects the command and plays its scripted reply. Called
// with e.mu held.
func (e *Engine) handleLine(line string) {
	e.emit(line + "\n")
	for i, ex := range e.script {
		if ex.Expect == line {
			e.script = append(e.script[:i:i], e.script[i+1:]...)
			e.emit(ex.Reply)
			return
		}
	}
	e.unexpected = append(e.unexpected, line)
	e.emit(fmt.Sprintf("unrecognized command: %q\n%s", line, Prompt))
}

// Interrupts reports how many interrupt control bytes arrived.
func (e *Engine) Interrupts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interrupts
}

// Remaining reports how many scripted exchanges were never consumed.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.script)
}

// Unexpected returns the command lines that had no scripted exchange.
func (e *Engine) Unexpected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.unexpected...)
}

// Close ends the stream; the session side observes EOF. Idempotent.
func (e *Engine) Close() error {
	e.once.Do(func() {
		close(e.closed)
		// Unblock both the session's reader and a replier mid-write.
		_ = e.pr.CloseWithError(io.EOF)
	})
	return nil
}
