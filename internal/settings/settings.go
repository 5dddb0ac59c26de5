// Package settings loads the codexia settings file and keeps it current.
//
// The file is YAML. Missing keys keep their defaults. Environment toggles are
// applied on top with ApplyEnv, once, at process start.
package settings

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/wagiedev/codex-proto-go/internal/config"
)

const (
	// DefaultBridgeAddr is where the remote bridge listens by default.
	DefaultBridgeAddr = "127.0.0.1:7420"

	// DefaultLogPath is the debug log file used when none is configured.
	DefaultLogPath = "/tmp/codexia.log"
)

// Environment variables read by ApplyEnv.
const (
	EnvDebugLog       = "CODEXIA_DEBUG_LOG"
	EnvLogPath        = "CODEXIA_LOG_PATH"
	EnvForceReasoning = "CODEX_FORCE_REASONING"
	EnvTTY            = "CODEX_TTY"
)

// Session holds per-session defaults. The same shape is accepted as the
// config argument of the bridge's start_codex_session command.
//
//nolint:tagliatelle // snake_case matches the settings file and bridge payloads
type Session struct {
	CodexPath        string   `json:"codex_path,omitempty"`
	WorkingDirectory string   `json:"working_directory,omitempty"`
	Model            string   `json:"model,omitempty"`
	ApprovalPolicy   string   `json:"approval_policy,omitempty"`
	SandboxMode      string   `json:"sandbox_mode,omitempty"`
	UseOSS           bool     `json:"use_oss,omitempty"`
	CustomArgs       []string `json:"custom_args,omitempty"`
	ForceReasoning   bool     `json:"force_reasoning,omitempty"`
	SpawnMode        string   `json:"spawn_mode,omitempty"`
}

// Merge returns s with every non-zero field of over applied on top.
func (s Session) Merge(over Session) Session {
	out := s
	out.CustomArgs = slices.Clone(s.CustomArgs)

	if over.CodexPath != "" {
		out.CodexPath = over.CodexPath
	}

	if over.WorkingDirectory != "" {
		out.WorkingDirectory = over.WorkingDirectory
	}

	if over.Model != "" {
		out.Model = over.Model
	}

	if over.ApprovalPolicy != "" {
		out.ApprovalPolicy = over.ApprovalPolicy
	}

	if over.SandboxMode != "" {
		out.SandboxMode = over.SandboxMode
	}

	if over.SpawnMode != "" {
		out.SpawnMode = over.SpawnMode
	}

	if over.CustomArgs != nil {
		out.CustomArgs = slices.Clone(over.CustomArgs)
	}

	out.UseOSS = out.UseOSS || over.UseOSS
	out.ForceReasoning = out.ForceReasoning || over.ForceReasoning

	return out
}

// Options converts s into session options layered over base. Base may be nil.
func (s Session) Options(base *config.Options) *config.Options {
	opts := base.Clone()

	opts.CodexPath = s.CodexPath
	opts.Cwd = s.WorkingDirectory
	opts.Model = s.Model
	opts.ApprovalPolicy = s.ApprovalPolicy
	opts.SandboxMode = s.SandboxMode
	opts.UseOSS = s.UseOSS
	opts.CustomArgs = slices.Clone(s.CustomArgs)
	opts.ForceReasoning = s.ForceReasoning
	opts.SpawnMode = config.SpawnMode(s.SpawnMode)

	return opts
}

// Bridge configures the websocket bridge.
//
//nolint:tagliatelle // snake_case matches the settings file
type Bridge struct {
	Addr        string `json:"addr,omitempty"`
	MaxSessions int    `json:"max_sessions,omitempty"`
}

// Log configures the debug log file.
type Log struct {
	Debug bool   `json:"debug,omitempty"`
	Path  string `json:"path,omitempty"`
}

// Settings is the whole settings file.
type Settings struct {
	Session Session `json:"session"`
	Bridge  Bridge  `json:"bridge"`
	Log     Log     `json:"log"`
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Bridge: Bridge{Addr: DefaultBridgeAddr},
		Log:    Log{Path: DefaultLogPath},
	}
}

// DefaultPath returns ~/.codexia/settings.yaml, or "" if the home directory
// cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".codexia", "settings.yaml")
}

// Load reads the settings file at path over the defaults. A missing file or
// an empty path yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	if s.Log.Path == "" {
		s.Log.Path = DefaultLogPath
	}

	return s, nil
}

// ApplyEnv overlays the environment toggles onto s. lookup is usually
// os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDebugLog); ok {
		s.Log.Debug = truthy(v)
	}

	if v, ok := lookup(EnvLogPath); ok && v != "" {
		s.Log.Path = v
	}

	if v, ok := lookup(EnvForceReasoning); ok && truthy(v) {
		s.Session.ForceReasoning = true
	}

	if v, ok := lookup(EnvTTY); ok && truthy(v) && s.Session.SpawnMode == "" {
		s.Session.SpawnMode = string(config.SpawnScript)
	}
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v != "" && v != "0"
	}

	return b
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Session.CustomArgs = slices.Clone(s.Session.CustomArgs)

	return &c
}

// Store holds the current settings for concurrent readers.
type Store struct {
	mu  sync.RWMutex
	cur *Settings
}

// NewStore creates a store holding s.
func NewStore(s *Settings) *Store {
	return &Store{cur: s.Clone()}
}

// Current returns a copy of the current settings.
func (st *Store) Current() *Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.cur.Clone()
}

// Set replaces the current settings.
func (st *Store) Set(s *Settings) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cur = s.Clone()
}
