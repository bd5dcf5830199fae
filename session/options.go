package session

import (
	"io"
	"log/slog"
	"time"
)

// Default session configuration values.
const (
	// DefaultBinary is the engine executable looked up on the search path.
	DefaultBinary = "nuxmv"

	// DefaultPrompt is the ready-prompt marker demarcating quiescence.
	DefaultPrompt = "nuXmv > "

	defaultTimeout    = 30 * time.Second
	defaultReadBuffer = 4096
)

// defaultArgs spawn the engine in interactive mode.
var defaultArgs = []string{"-int"}

// Options holds resolved construction-time configuration for a Session.
type Options struct {
	// Binary is the engine executable name or path.
	Binary string

	// Args are the engine command-line arguments.
	Args []string

	// Prompt is the ready-prompt marker.
	Prompt string

	// DefaultTimeout bounds bootstrap, echo-consumption and prompt
	// waits that carry no explicit per-call timeout.
	DefaultTimeout time.Duration

	// ReadBuffer is the chunk size for reads from the engine stream.
	ReadBuffer int

	// Faults is the fatal-phrase table scanned against every transcript.
	Faults *FaultTable

	// Logger receives structured debug logging.
	Logger *slog.Logger
}

// Option configures a Session at construction time.
type Option func(*Options)

// WithBinary overrides the engine executable name.
func WithBinary(binary string) Option {
	return func(o *Options) {
		if binary != "" {
			o.Binary = binary
		}
	}
}

// WithPrompt overrides the ready-prompt marker.
func WithPrompt(prompt string) Option {
	return func(o *Options) {
		if prompt != "" {
			o.Prompt = prompt
		}
	}
}

// WithDefaultTimeout overrides the default await timeout.
// Values <= 0 are ignored.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.DefaultTimeout = d
		}
	}
}

// WithReadBuffer overrides the read chunk size. Values <= 0 are ignored.
func WithReadBuffer(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ReadBuffer = size
		}
	}
}

// WithFaultTable overrides the fatal-phrase table.
func WithFaultTable(t *FaultTable) Option {
	return func(o *Options) {
		if t != nil {
			o.Faults = t
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func resolveOptions(opts ...Option) Options {
	o := Options{
		Binary:         DefaultBinary,
		Args:           defaultArgs,
		Prompt:         DefaultPrompt,
		DefaultTimeout: defaultTimeout,
		ReadBuffer:     defaultReadBuffer,
		Faults:         DefaultFaultTable(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
