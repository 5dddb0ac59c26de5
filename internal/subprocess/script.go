package subprocess

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/wagiedev/codex-proto-go/internal/cli"
	"github.com/wagiedev/codex-proto-go/internal/config"
)

// ScriptLauncher runs codex under `script -qf` so it sees a terminal and
// flushes every line. When script is unavailable it falls back to
// `stdbuf -oL -eL`, and to a direct launch when neither helper exists.
type ScriptLauncher struct {
	log      *slog.Logger
	direct   *DirectLauncher
	lookPath func(file string) (string, error)
}

// Compile-time verification that ScriptLauncher implements config.Launcher.
var _ config.Launcher = (*ScriptLauncher)(nil)

// NewScriptLauncher creates a launcher that wraps codex in a tty helper.
func NewScriptLauncher(log *slog.Logger) *ScriptLauncher {
	return &ScriptLauncher{
		log:      log.With("component", "launcher", "mode", config.SpawnScript),
		direct:   NewDirectLauncher(log),
		lookPath: exec.LookPath,
	}
}

// Launch implements config.Launcher.
func (l *ScriptLauncher) Launch(ctx context.Context, c *config.Command) (*config.Handles, error) {
	return l.direct.Launch(ctx, l.wrap(c))
}

// wrap rewrites c to run under the best available helper.
func (l *ScriptLauncher) wrap(c *config.Command) *config.Command {
	if script, err := l.lookPath("script"); err == nil {
		l.log.Debug("Wrapping codex with script", "script", script)

		return &config.Command{
			Path: script,
			Args: []string{"-qf", "-c", cli.ShellJoin(c.Argv()), "/dev/null"},
			Dir:  c.Dir,
			Env:  c.Env,
		}
	}

	if stdbuf, err := l.lookPath("stdbuf"); err == nil {
		l.log.Debug("script not found, wrapping codex with stdbuf", "stdbuf", stdbuf)

		return &config.Command{
			Path: stdbuf,
			Args: append([]string{"-oL", "-eL"}, c.Argv()...),
			Dir:  c.Dir,
			Env:  c.Env,
		}
	}

	l.log.Warn("Neither script nor stdbuf found, launching codex directly")

	return c
}
