package nuxmv

import (
	"io"
	"log/slog"
)

// defaultShownStates is the display-size option applied on SetModel:
// the engine truncates candidate-state enumeration beyond it.
const defaultShownStates = 65535

// Options holds resolved construction-time configuration for a Driver.
type Options struct {
	// ShownStates is the value for the engine's shown_states option.
	ShownStates int

	// Logger receives structured debug logging.
	Logger *slog.Logger
}

// Option configures a Driver at construction time.
type Option func(*Options)

// WithShownStates overrides the shown_states display-size option.
// Values <= 0 are ignored.
func WithShownStates(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.ShownStates = n
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
		ShownStates: defaultShownStates,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
