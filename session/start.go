//go:build linux || darwin || freebsd || netbsd || openbsd

package session

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/creack/pty"

	"goxmv"
)

// Start locates the engine executable on the search path, spawns it in
// interactive mode attached to a pseudo-terminal configured for command
// reflection, and blocks until the initial ready prompt appears.
//
// Returns an error wrapping goxmv.ErrToolNotFound when the executable
// is absent.
func Start(opts ...Option) (*Session, error) {
	o := resolveOptions(opts...)

	path, err := exec.LookPath(o.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", goxmv.ErrToolNotFound, o.Binary, err)
	}

	cmd := exec.Command(path, o.Args...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("session: spawn %s: %w", path, err)
	}
	if err := configureEcho(ptmx); err != nil {
		_ = cmd.Process.Kill()
		_ = ptmx.Close()
		_ = cmd.Wait()
		return nil, fmt.Errorf("session: configure pty echo: %w", err)
	}

	s := newSession(ptmx, cmd, o)
	s.logger.Debug("engine started", "binary", path, "pid", cmd.Process.Pid)

	if _, err := s.AwaitPrompt(context.Background(), o.DefaultTimeout); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("session: waiting for initial prompt: %w", err)
	}
	return s, nil
}
