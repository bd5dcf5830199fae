// Package nuxmv is the command layer over a session: it builds and
// sequences engine commands (model loading, environment management,
// property checks, guided simulation), tracks the sticky mode-readiness
// flags, and auto-remediates recoverable preconditions.
//
// The state machine per session is Uninitialized → Ready (bootstrap) →
// ModelLoaded (SetModel) → {BooleanReady, SymbolicReady} (independent,
// set by the first use of each mode). Reset clears both readiness flags.
package nuxmv

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"goxmv/session"
)

// Conversation is what the driver needs from a session. Defined here,
// on the consumer side; *session.Session satisfies it.
type Conversation interface {
	Send(ctx context.Context, cmd string) error
	Await(ctx context.Context, timeout time.Duration, patterns ...session.Pattern) (string, error)
	AwaitPrompt(ctx context.Context, timeout time.Duration) (string, error)
	Close() error
}

var _ Conversation = (*session.Session)(nil)

// Driver sequences domain commands over one engine conversation.
// Not safe for concurrent use: exactly one command may be outstanding.
type Driver struct {
	conv   Conversation
	opts   Options
	logger *slog.Logger

	// Sticky readiness flags, one per analysis mode. A mode's warm-up
	// command is issued at most once until the next reset.
	booleanReady  bool // BDD procedures engaged ("go")
	symbolicReady bool // symbolic procedures engaged ("go_msat")

	env        map[string]string // reflects only commands that completed cleanly
	defaultEnv map[string]string // captured at construction
}

// NewDriver wraps an established conversation and captures the engine's
// default configuration.
func NewDriver(ctx context.Context, conv Conversation, opts ...Option) (*Driver, error) {
	o := resolveOptions(opts...)
	d := &Driver{
		conv:   conv,
		opts:   o,
		logger: o.Logger,
		env:    map[string]string{},
	}
	defaults, err := d.FetchEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("nuxmv: read default environment: %w", err)
	}
	d.defaultEnv = cloneEnv(defaults)
	return d, nil
}

// Close terminates the underlying session. Idempotent.
func (d *Driver) Close() error { return d.conv.Close() }

// BooleanReady reports whether BDD procedures have been engaged.
func (d *Driver) BooleanReady() bool { return d.booleanReady }

// SymbolicReady reports whether symbolic procedures have been engaged.
func (d *Driver) SymbolicReady() bool { return d.symbolicReady }

// Raw sends one engine command and returns the transcript captured up
// to the next ready prompt. timeout <= 0 means no deadline.
func (d *Driver) Raw(ctx context.Context, cmd string, timeout time.Duration) (string, error) {
	if err := d.conv.Send(ctx, cmd); err != nil {
		return "", err
	}
	return d.conv.AwaitPrompt(ctx, timeout)
}

// SetModel loads a model: full reset, display-size option, input file,
// then the read/flatten sequence. Mode warm-up stays lazy; the first
// mode-dependent command engages its mode.
func (d *Driver) SetModel(ctx context.Context, path string) error {
	if err := d.Reset(ctx, true); err != nil {
		return fmt.Errorf("nuxmv: load %s: %w", path, err)
	}
	if err := d.SetEnv(ctx, "shown_states", strconv.Itoa(d.opts.ShownStates)); err != nil {
		return fmt.Errorf("nuxmv: load %s: %w", path, err)
	}
	if err := d.SetEnv(ctx, "input_file", path); err != nil {
		return fmt.Errorf("nuxmv: load %s: %w", path, err)
	}
	for _, cmd := range []string{"read_model", "flatten_hierarchy"} {
		if _, err := d.Raw(ctx, cmd, 0); err != nil {
			return fmt.Errorf("nuxmv: load %s: %s: %w", path, cmd, err)
		}
	}
	d.logger.Debug("model loaded", "path", path)
	return nil
}

// Env returns a copy of the cached engine configuration. The cache
// reflects only commands that completed without a fault.
func (d *Driver) Env() map[string]string {
	return cloneEnv(d.env)
}

// FetchEnv re-reads the engine configuration via "set" and refreshes
// the cache. Unset variables (reported as NULL) map to empty strings.
func (d *Driver) FetchEnv(ctx context.Context) (map[string]string, error) {
	out, err := d.Raw(ctx, "set", 0)
	if err != nil {
		return nil, err
	}
	env := parseEnv(out)
	d.env = cloneEnv(env)
	return env, nil
}

// SetEnv sets one engine configuration variable.
func (d *Driver) SetEnv(ctx context.Context, name, value string) error {
	if _, err := d.Raw(ctx, fmt.Sprintf(`set %s "%s"`, name, value), 0); err != nil {
		return err
	}
	d.env[name] = value
	return nil
}

// UnsetEnv unsets one engine configuration variable.
func (d *Driver) UnsetEnv(ctx context.Context, name string) error {
	if _, err := d.Raw(ctx, "unset "+name, 0); err != nil {
		return err
	}
	delete(d.env, name)
	return nil
}

// Reset returns the engine to a clean state and clears both readiness
// flags. With restoreDefaults, the configuration captured at
// construction is re-applied (full reset); otherwise the current
// environment is left as the engine's reset leaves it.
func (d *Driver) Reset(ctx context.Context, restoreDefaults bool) error {
	if _, err := d.Raw(ctx, "reset", 0); err != nil {
		return err
	}
	d.booleanReady = false
	d.symbolicReady = false
	if !restoreDefaults {
		return nil
	}
	names := make([]string, 0, len(d.defaultEnv))
	for name := range d.defaultEnv {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := d.defaultEnv[name]
		if value == "" {
			continue
		}
		if err := d.SetEnv(ctx, name, value); err != nil {
			return err
		}
	}
	d.env = cloneEnv(d.defaultEnv)
	return nil
}

func parseEnv(out string) map[string]string {
	env := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name := strings.Fields(line)[0]
		value := strings.TrimSpace(line[len(name):])
		switch {
		case value == "NULL":
			value = ""
		case strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2:
			value = value[1 : len(value)-1]
		}
		env[name] = value
	}
	return env
}

func cloneEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
