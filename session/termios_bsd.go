//go:build darwin || freebsd || netbsd || openbsd

package session

import (
	"os"

	"golang.org/x/sys/unix"
)

// configureEcho sets the pty so that command lines are reflected back
// (Send consumes that reflection to synchronize) while control
// characters are not, so the interrupt byte never shows up as "^C" in
// the transcript.
func configureEcho(f *os.File) error {
	tio, err := unix.IoctlGetTermios(int(f.Fd()), unix.TIOCGETA)
	if err != nil {
		return err
	}
	tio.Lflag |= unix.ECHO
	tio.Lflag &^= unix.ECHOCTL
	return unix.IoctlSetTermios(int(f.Fd()), unix.TIOCSETA, tio)
}
