// Package config provides configuration types for the codex proto SDK.
package config

import (
	"context"
	"io"
)

// Command is a fully resolved codex invocation.
type Command struct {
	// Path is the executable to run.
	Path string

	// Args are the arguments after the executable, in order.
	Args []string

	// Dir is the working directory. Empty means inherit the parent's.
	Dir string

	// Env is the process environment. Nil means inherit the parent's.
	Env []string
}

// Argv returns the executable followed by its arguments.
func (c *Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Path)

	return append(argv, c.Args...)
}

// Process is the handle to a launched process.
type Process interface {
	// Pid returns the operating system process id.
	Pid() int

	// Kill forcibly terminates the process. Killing an already exited
	// process is not an error.
	Kill() error

	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}

	// ExitCode returns the exit code after Done is closed, or -1.
	ExitCode() int
}

// Handles is everything a launcher hands over to the caller: exactly one
// writer for the child's stdin, one reader for each of its output streams,
// and the process handle.
type Handles struct {
	Stdin   io.WriteCloser
	Stdout  io.ReadCloser
	Stderr  io.ReadCloser
	Process Process
}

// Complete reports whether all four handles are present.
func (h *Handles) Complete() bool {
	return h != nil && h.Stdin != nil && h.Stdout != nil && h.Stderr != nil && h.Process != nil
}

// Launcher starts a Command with all three standard streams redirected.
// Implement this to provide alternative spawn strategies or test doubles.
//
// The default implementations live in the subprocess package and are
// selected with Options.SpawnMode.
type Launcher interface {
	Launch(ctx context.Context, cmd *Command) (*Handles, error)
}

// Discoverer locates the codex binary when no explicit path is configured.
type Discoverer interface {
	// Discover returns the absolute path to the codex binary or an error.
	Discover(ctx context.Context) (string, error)
}
