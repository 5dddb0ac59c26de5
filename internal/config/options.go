package config

import (
	"log/slog"
	"slices"
	"time"

	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// SpawnMode selects the process launch strategy.
type SpawnMode string

const (
	// SpawnDirect executes codex directly with three pipes.
	SpawnDirect SpawnMode = "direct"
	// SpawnScript wraps codex in `script -qf` so it believes it writes to a tty,
	// falling back to `stdbuf -oL -eL` and finally to a direct spawn.
	SpawnScript SpawnMode = "script"
	// SpawnPTY attaches codex's stdout to a native pseudo-terminal.
	SpawnPTY SpawnMode = "pty"
)

const (
	// DefaultEventBufferSize is the capacity of the event and stderr channels.
	DefaultEventBufferSize = 256

	// DefaultMaxLineSize is the longest stdout/stderr line accepted.
	DefaultMaxLineSize = 10 * 1024 * 1024 // 10MB

	// DefaultCloseTimeout bounds how long Close waits for the pumps to finish.
	DefaultCloseTimeout = 5 * time.Second
)

// Options configures a codex proto session. Options are copied when a
// session starts and never change for that session's lifetime.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// CodexPath is an explicit path to the codex binary. It is used verbatim.
	// If empty, the binary is located by the Discoverer.
	CodexPath string

	// Model selects the model, passed as -c model=<Model>.
	Model string

	// ApprovalPolicy is passed as -c approval_policy=<ApprovalPolicy>.
	ApprovalPolicy string

	// SandboxMode is one of "read-only", "workspace-write", "danger-full-access".
	// Unrecognized values degrade to "workspace-write".
	SandboxMode string

	// UseOSS selects the open source model provider (-c model_provider=oss).
	UseOSS bool

	// Cwd sets the working directory for the codex process.
	// If empty, the parent's working directory is inherited.
	Cwd string

	// CustomArgs are appended last, unmodified and unvalidated.
	CustomArgs []string

	// ForceReasoning makes codex emit raw reasoning with high effort and
	// detailed summaries.
	ForceReasoning bool

	// SpawnMode selects the launch strategy. Empty means SpawnDirect.
	SpawnMode SpawnMode

	// SessionID overrides the generated session identifier.
	SessionID string

	// Stderr is called with every line codex writes to stderr.
	Stderr func(string)

	// OnDecodeError is called for every stdout line that is not a valid event.
	OnDecodeError func(*errors.DecodeError)

	// EventBufferSize is the capacity of the Events and Errors channels.
	// Zero means DefaultEventBufferSize.
	EventBufferSize int

	// MaxLineSize is the longest line accepted from codex.
	// Zero means DefaultMaxLineSize.
	MaxLineSize int

	// CloseTimeout bounds how long Close waits for the pumps.
	// Zero means DefaultCloseTimeout; negative means do not wait.
	CloseTimeout time.Duration

	// Launcher overrides the launch strategy selected by SpawnMode.
	// This field is not serialized to JSON.
	Launcher Launcher `json:"-"`

	// Discoverer overrides the default codex binary discovery.
	// This field is not serialized to JSON.
	Discoverer Discoverer `json:"-"`
}

// Clone returns a copy of o that shares no mutable state with it.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}

	c := *o
	c.CustomArgs = slices.Clone(o.CustomArgs)

	return &c
}

// EffectiveEventBufferSize returns EventBufferSize or its default.
func (o *Options) EffectiveEventBufferSize() int {
	if o.EventBufferSize > 0 {
		return o.EventBufferSize
	}

	return DefaultEventBufferSize
}

// EffectiveMaxLineSize returns MaxLineSize or its default.
func (o *Options) EffectiveMaxLineSize() int {
	if o.MaxLineSize > 0 {
		return o.MaxLineSize
	}

	return DefaultMaxLineSize
}

// EffectiveCloseTimeout returns CloseTimeout or its default.
func (o *Options) EffectiveCloseTimeout() time.Duration {
	if o.CloseTimeout == 0 {
		return DefaultCloseTimeout
	}

	return o.CloseTimeout
}
