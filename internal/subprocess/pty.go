//go:build !windows

package subprocess

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/creack/pty"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// PTYLauncher attaches codex's stdout to a pseudo-terminal slave so the child
// line-buffers its output. Stdin and stderr remain plain pipes. The terminal
// translates "\n" into "\r\n"; the output reader strips the carriage return.
type PTYLauncher struct {
	log *slog.Logger
}

// Compile-time verification that PTYLauncher implements config.Launcher.
var _ config.Launcher = (*PTYLauncher)(nil)

// NewPTYLauncher creates a launcher backed by a native pseudo-terminal.
func NewPTYLauncher(log *slog.Logger) *PTYLauncher {
	return &PTYLauncher{log: log.With("component", "launcher", "mode", config.SpawnPTY)}
}

// Launch implements config.Launcher.
func (l *PTYLauncher) Launch(ctx context.Context, c *config.Command) (*config.Handles, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, &errors.SpawnError{Path: c.Path, Err: fmt.Errorf("open pty: %w", err)}
	}

	return start(ctx, l.log, c, ptmx, tty, func(cmd *exec.Cmd) {
		// New session so the child is not tied to our controlling terminal.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	})
}

// isHangup reports whether err is the EIO a pty master returns once every
// slave descriptor is closed.
func isHangup(err error) bool {
	return stderrors.Is(err, syscall.EIO)
}
