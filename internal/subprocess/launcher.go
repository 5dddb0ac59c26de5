package subprocess

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// ForMode returns the launcher for the given spawn mode.
// Unknown and empty modes select the direct launcher.
func ForMode(log *slog.Logger, mode config.SpawnMode) config.Launcher {
	switch mode {
	case config.SpawnScript:
		return NewScriptLauncher(log)
	case config.SpawnPTY:
		return NewPTYLauncher(log)
	default:
		return NewDirectLauncher(log)
	}
}

// DirectLauncher executes the command as is with three plain pipes.
type DirectLauncher struct {
	log *slog.Logger
}

// Compile-time verification that DirectLauncher implements config.Launcher.
var _ config.Launcher = (*DirectLauncher)(nil)

// NewDirectLauncher creates a launcher that runs codex directly.
func NewDirectLauncher(log *slog.Logger) *DirectLauncher {
	return &DirectLauncher{log: log.With("component", "launcher", "mode", config.SpawnDirect)}
}

// Launch implements config.Launcher.
func (l *DirectLauncher) Launch(ctx context.Context, c *config.Command) (*config.Handles, error) {
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: c.Path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	return start(ctx, l.log, c, stdoutR, stdoutW, nil)
}

// start spawns c with fresh stdin and stderr pipes and stdout attached to
// stdoutW. The parent keeps stdoutR. All child-side descriptors are closed in
// the parent once the process is running.
func start(
	ctx context.Context,
	log *slog.Logger,
	c *config.Command,
	stdoutR io.ReadCloser,
	stdoutW *os.File,
	configure func(cmd *exec.Cmd),
) (*config.Handles, error) {
	var parentEnds, childEnds []io.Closer

	closeAll := func(closers []io.Closer) {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	parentEnds = append(parentEnds, stdoutR)
	childEnds = append(childEnds, stdoutW)

	fail := func(err error) (*config.Handles, error) {
		closeAll(childEnds)
		closeAll(parentEnds)

		log.Error("Failed to start codex process", "path", c.Path, "error", err)

		return nil, &errors.SpawnError{Path: c.Path, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return fail(fmt.Errorf("stdin pipe: %w", err))
	}

	parentEnds = append(parentEnds, stdinW)
	childEnds = append(childEnds, stdinR)

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		return fail(fmt.Errorf("stderr pipe: %w", err))
	}

	parentEnds = append(parentEnds, stderrR)
	childEnds = append(childEnds, stderrW)

	// The session outlives the context used to start it, so the command is
	// not bound to ctx. Close kills the process explicitly.
	//nolint:gosec // G204: launching codex with dynamic args is the point
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if configure != nil {
		configure(cmd)
	}

	if err := cmd.Start(); err != nil {
		return fail(err)
	}

	closeAll(childEnds)

	proc := watch(log, cmd)

	log.Info("Started codex process", "pid", proc.Pid(), "path", c.Path)

	return &config.Handles{
		Stdin:   stdinW,
		Stdout:  stdoutR,
		Stderr:  stderrR,
		Process: proc,
	}, nil
}

// process adapts an *exec.Cmd to config.Process. A dedicated goroutine reaps
// the child so Done fires even when nobody is reading the pipes.
type process struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode atomic.Int64
}

// Compile-time verification that process implements config.Process.
var _ config.Process = (*process)(nil)

func watch(log *slog.Logger, cmd *exec.Cmd) *process {
	p := &process{cmd: cmd, done: make(chan struct{})}
	p.exitCode.Store(-1)

	go func() {
		defer close(p.done)

		err := cmd.Wait()
		if cmd.ProcessState != nil {
			p.exitCode.Store(int64(cmd.ProcessState.ExitCode()))
		}

		log.Debug("Codex process exited", "pid", cmd.Process.Pid, "exit_code", p.exitCode.Load(), "error", err)
	}()

	return p
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) Kill() error {
	if err := p.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill codex process (pid %d): %w", p.Pid(), err)
	}

	return nil
}

func (p *process) Done() <-chan struct{} {
	return p.done
}

func (p *process) ExitCode() int {
	return int(p.exitCode.Load())
}
