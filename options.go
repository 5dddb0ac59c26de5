package codexsdk

import (
	"log/slog"
	"time"
)

// Option configures SessionOptions using the functional options pattern.
type Option func(*SessionOptions)

// applyOptions applies functional options to a fresh SessionOptions.
func applyOptions(opts []Option) *SessionOptions {
	options := &SessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *SessionOptions) {
		o.Logger = logger
	}
}

// WithCodexPath sets the explicit path to the codex binary.
// If not set, codex is searched in PATH and common install locations.
func WithCodexPath(path string) Option {
	return func(o *SessionOptions) {
		o.CodexPath = path
	}
}

// WithModel specifies which model codex should use.
func WithModel(model string) Option {
	return func(o *SessionOptions) {
		o.Model = model
	}
}

// WithApprovalPolicy controls when codex asks before acting.
// Common values: "untrusted", "on-failure", "on-request", "never".
func WithApprovalPolicy(policy string) Option {
	return func(o *SessionOptions) {
		o.ApprovalPolicy = policy
	}
}

// WithSandboxMode sets the sandbox: "read-only", "workspace-write" or
// "danger-full-access". Other values fall back to "workspace-write".
func WithSandboxMode(mode string) Option {
	return func(o *SessionOptions) {
		o.SandboxMode = mode
	}
}

// WithOSS selects the open source model provider.
func WithOSS(enabled bool) Option {
	return func(o *SessionOptions) {
		o.UseOSS = enabled
	}
}

// WithCwd sets the working directory for the codex process.
func WithCwd(cwd string) Option {
	return func(o *SessionOptions) {
		o.Cwd = cwd
	}
}

// WithCustomArgs appends raw arguments after the generated ones.
func WithCustomArgs(args ...string) Option {
	return func(o *SessionOptions) {
		o.CustomArgs = append(o.CustomArgs, args...)
	}
}

// WithForceReasoning asks codex for raw reasoning with high effort and
// detailed summaries.
func WithForceReasoning(enabled bool) Option {
	return func(o *SessionOptions) {
		o.ForceReasoning = enabled
	}
}

// WithSpawnMode selects the launch strategy.
func WithSpawnMode(mode SpawnMode) Option {
	return func(o *SessionOptions) {
		o.SpawnMode = mode
	}
}

// WithSessionID sets the session identifier instead of generating a ULID.
func WithSessionID(id string) Option {
	return func(o *SessionOptions) {
		o.SessionID = id
	}
}

// ===== Callbacks =====

// WithStderr sets a callback for every line codex writes to stderr.
func WithStderr(handler func(string)) Option {
	return func(o *SessionOptions) {
		o.Stderr = handler
	}
}

// WithOnDecodeError sets a callback for stdout lines that are not valid events.
func WithOnDecodeError(handler func(*DecodeError)) Option {
	return func(o *SessionOptions) {
		o.OnDecodeError = handler
	}
}

// ===== Tuning =====

// WithEventBufferSize sets the capacity of the Events and Errors channels.
func WithEventBufferSize(size int) Option {
	return func(o *SessionOptions) {
		o.EventBufferSize = size
	}
}

// WithMaxLineSize sets the longest line accepted from codex.
func WithMaxLineSize(size int) Option {
	return func(o *SessionOptions) {
		o.MaxLineSize = size
	}
}

// WithCloseTimeout bounds how long Close waits for the pumps to finish.
// A negative value makes Close return without waiting.
func WithCloseTimeout(timeout time.Duration) Option {
	return func(o *SessionOptions) {
		o.CloseTimeout = timeout
	}
}

// ===== Extension Points =====

// WithLauncher replaces the launch strategy selected by WithSpawnMode.
// Useful for tests and for running codex somewhere other than locally.
func WithLauncher(launcher Launcher) Option {
	return func(o *SessionOptions) {
		o.Launcher = launcher
	}
}

// WithDiscoverer replaces the default codex binary lookup.
func WithDiscoverer(discoverer Discoverer) Option {
	return func(o *SessionOptions) {
		o.Discoverer = discoverer
	}
}

// WithOptions copies every field of a prepared SessionOptions, for callers
// that build options from a settings file. Later options still apply on top.
func WithOptions(base *SessionOptions) Option {
	return func(o *SessionOptions) {
		if base == nil {
			return
		}

		*o = *base.Clone()
	}
}
