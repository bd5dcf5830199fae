// Package session owns the conversation with the verification engine.
//
// The engine is an interactive, line-oriented program with no structured
// protocol: synchronization happens on textual markers. A Session sends
// one command at a time, consumes the pseudo-terminal's echo of it, and
// blocks until a recognized marker appears in the streamed output. Every
// captured transcript is scanned against a configurable table of fatal
// phrase fragments before it is handed to the caller.
//
// A Session is not safe for concurrent use: the conversation is stateful
// with exactly one command outstanding at any time.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"goxmv"
)

// interruptChar is the control character sent to abort an in-flight
// engine computation without killing the process (ETX, Ctrl-C).
const interruptChar = 0x03

// Session is a live handle to one engine subprocess. Create it with
// Start (spawning the engine on a pseudo-terminal) or Attach (wrapping
// an already-established conversation stream).
type Session struct {
	id     string
	pt     io.ReadWriteCloser
	cmd    *exec.Cmd // nil for attached sessions
	opts   Options
	logger *slog.Logger

	chunks  chan []byte
	done    chan struct{}
	pending []byte

	closeOnce sync.Once
	closeErr  error
}

// Attach wraps an established engine conversation stream in a Session
// and blocks until the ready prompt appears. The caller keeps ownership
// of any process behind rw; Close only closes the stream.
func Attach(rw io.ReadWriteCloser, opts ...Option) (*Session, error) {
	s := newSession(rw, nil, resolveOptions(opts...))
	if _, err := s.AwaitPrompt(context.Background(), s.opts.DefaultTimeout); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("session: waiting for initial prompt: %w", err)
	}
	return s, nil
}

func newSession(rw io.ReadWriteCloser, cmd *exec.Cmd, opts Options) *Session {
	s := &Session{
		id:     uuid.NewString(),
		pt:     rw,
		cmd:    cmd,
		opts:   opts,
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	s.logger = opts.Logger.With("session", shortID(s.id))
	go s.readLoop()
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// readLoop pumps output chunks from the engine into the chunks channel.
// The channel is closed when the stream ends.
func (s *Session) readLoop() {
	buf := make([]byte, s.opts.ReadBuffer)
	for {
		n, err := s.pt.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			close(s.chunks)
			return
		}
	}
}

// Send writes one command line and consumes the echoed command text, so
// the echo is never mistaken for engine output.
func (s *Session) Send(ctx context.Context, cmd string) error {
	cmd = strings.TrimSpace(cmd)
	s.logger.Debug("send", "cmd", cmd)
	if _, err := io.WriteString(s.pt, cmd+"\n"); err != nil {
		return fmt.Errorf("session: write command: %w", err)
	}
	// The echo is our own input reflected back, not engine output: do
	// not fault-scan it.
	if _, err := s.await(ctx, s.opts.DefaultTimeout, false, Exact(cmd)); err != nil {
		return fmt.Errorf("session: consume echo of %q: %w", cmd, err)
	}
	return nil
}

// Await blocks until any pattern appears in the streamed output or the
// timeout elapses, and returns everything preceding the match. A timeout
// of zero or less means no deadline. On timeout (or ctx cancellation) an
// interrupt control character is sent to the engine and the session
// remains usable. The returned transcript has been scanned against the
// fault table.
func (s *Session) Await(ctx context.Context, timeout time.Duration, patterns ...Pattern) (string, error) {
	return s.await(ctx, timeout, true, patterns...)
}

// AwaitPrompt awaits the engine's ready prompt.
func (s *Session) AwaitPrompt(ctx context.Context, timeout time.Duration) (string, error) {
	return s.Await(ctx, timeout, Exact(s.opts.Prompt))
}

func (s *Session) await(ctx context.Context, timeout time.Duration, scan bool, patterns ...Pattern) (string, error) {
	if len(patterns) == 0 {
		return "", fmt.Errorf("session: await requires at least one pattern")
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if m, ok := matchEarliest(s.pending, patterns); ok {
			transcript := string(s.pending[:m.start])
			rest := make([]byte, len(s.pending)-m.end)
			copy(rest, s.pending[m.end:])
			s.pending = rest
			if scan {
				if err := s.opts.Faults.Scan(transcript); err != nil {
					s.logger.Debug("fault detected", "err", err)
					return "", err
				}
			}
			return transcript, nil
		}

		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return "", s.streamEnded()
			}
			s.pending = append(s.pending, chunk...)
		case <-deadline:
			s.interrupt()
			return "", fmt.Errorf("%w: no match for %s within %s",
				goxmv.ErrTimeout, describePatterns(patterns), timeout)
		case <-ctx.Done():
			s.interrupt()
			return "", ctx.Err()
		}
	}
}

// streamEnded converts an engine EOF into a fault carrying the tail of
// whatever output was pending.
func (s *Session) streamEnded() error {
	lines := tailLines(string(s.pending), 5)
	if len(lines) == 0 {
		lines = []string{"engine closed the stream"}
	}
	return &goxmv.FaultError{Lines: lines}
}

func tailLines(text string, n int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// interrupt aborts the in-flight engine computation. Best-effort: the
// session may be racing engine exit.
func (s *Session) interrupt() {
	if _, err := s.pt.Write([]byte{interruptChar}); err != nil {
		s.logger.Debug("interrupt write failed", "err", err)
	}
}

// Close forcibly terminates the engine subprocess (if this session
// spawned one) and closes the stream. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.cmd != nil && s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		if s.pt != nil {
			s.closeErr = s.pt.Close()
		}
		if s.cmd != nil {
			_ = s.cmd.Wait() // reap; exit status is meaningless after Kill
		}
		s.logger.Debug("session closed")
	})
	return s.closeErr
}
