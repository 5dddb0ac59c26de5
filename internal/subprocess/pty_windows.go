package subprocess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// PTYLauncher is not available on Windows.
type PTYLauncher struct {
	log *slog.Logger
}

// NewPTYLauncher creates a launcher that always fails on Windows.
func NewPTYLauncher(log *slog.Logger) *PTYLauncher {
	return &PTYLauncher{log: log.With("component", "launcher", "mode", config.SpawnPTY)}
}

// Launch implements config.Launcher.
func (l *PTYLauncher) Launch(_ context.Context, c *config.Command) (*config.Handles, error) {
	return nil, &errors.SpawnError{Path: c.Path, Err: fmt.Errorf("pty spawn mode is not supported on windows")}
}

func isHangup(error) bool {
	return false
}
