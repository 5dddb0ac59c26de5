package codexsdk

import (
	"context"

	"github.com/wagiedev/codex-proto-go/internal/cli"
	"github.com/wagiedev/codex-proto-go/internal/manager"
)

// Manager keeps several sessions keyed by id.
type Manager = manager.Manager

// ManagerConfig configures a Manager.
type ManagerConfig = manager.Config

// Listener receives the output of every session a Manager owns.
type Listener = manager.Listener

// SessionInfo is a snapshot of one managed session.
type SessionInfo = manager.Info

// NewManager creates a session manager.
func NewManager(cfg *ManagerConfig) *Manager {
	return manager.New(cfg)
}

// CheckVersion runs `codex -V` and returns the reported version.
//
// The binary is taken from WithCodexPath or located the same way NewSession
// locates it.
func CheckVersion(ctx context.Context, opts ...Option) (string, error) {
	options := applyOptions(opts)

	path := options.CodexPath
	if path == "" {
		discoverer := options.Discoverer
		if discoverer == nil {
			discoverer = cli.NewDiscoverer(&cli.Config{Logger: options.Logger})
		}

		found, err := discoverer.Discover(ctx)
		if err != nil {
			return "", err
		}

		path = found
	}

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	version, err := cli.Version(ctx, path)
	if err != nil {
		return "", err
	}

	log.Debug("Detected codex version", "path", path, "version", version)

	return version, nil
}
