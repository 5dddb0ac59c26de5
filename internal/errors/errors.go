package errors

import (
	"errors"
	"fmt"
)

// CodexSDKError is the base interface for all SDK errors.
type CodexSDKError interface {
	error
	IsCodexSDKError() bool
}

// Compile-time verification that all error types implement CodexSDKError.
var (
	_ CodexSDKError = (*DiscoveryError)(nil)
	_ CodexSDKError = (*SpawnError)(nil)
	_ CodexSDKError = (*EncodeError)(nil)
	_ CodexSDKError = (*DecodeError)(nil)
	_ CodexSDKError = (*PipeError)(nil)
	_ CodexSDKError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionClosed indicates the session was closed or its writer is gone.
	// No I/O is attempted when this error is returned.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionNotFound indicates no session is registered under the given id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists indicates a session is already registered under the given id.
	ErrSessionExists = errors.New("session already exists")

	// ErrTooManySessions indicates the manager reached its session limit.
	ErrTooManySessions = errors.New("too many sessions")
)

// DiscoveryError indicates no usable codex binary was found.
type DiscoveryError struct {
	SearchedPaths []string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("codex executable not found in: %v", e.SearchedPaths)
}

// IsCodexSDKError implements CodexSDKError.
func (e *DiscoveryError) IsCodexSDKError() bool { return true }

// SpawnError indicates the operating system failed to start the process.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to spawn codex: %v", e.Err)
	}

	return fmt.Sprintf("failed to spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsCodexSDKError implements CodexSDKError.
func (e *SpawnError) IsCodexSDKError() bool { return true }

// EncodeError indicates a submission could not be serialized.
// It is returned to the caller of the send operation and does not affect the session.
type EncodeError struct {
	Op  string
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %s submission: %v", e.Op, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// IsCodexSDKError implements CodexSDKError.
func (e *EncodeError) IsCodexSDKError() bool { return true }

// DecodeError indicates a line read from codex stdout is not a protocol event.
// It is a warning: the reader keeps going with the next line.
type DecodeError struct {
	RawData string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode event from codex: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsCodexSDKError implements CodexSDKError.
func (e *DecodeError) IsCodexSDKError() bool { return true }

// PipeError indicates a read or write on one of the process pipes failed.
// It only terminates the pump that owns the pipe.
type PipeError struct {
	Stream string // "stdin", "stdout" or "stderr"
	Op     string // "write", "flush", "read" or "close"
	Err    error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Stream, e.Op, e.Err)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// IsCodexSDKError implements CodexSDKError.
func (e *PipeError) IsCodexSDKError() bool { return true }

// ProcessError indicates a short-lived codex invocation (such as a version
// probe) exited with an error.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("codex process failed (exit %d): %s", e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("codex process failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsCodexSDKError implements CodexSDKError.
func (e *ProcessError) IsCodexSDKError() bool { return true }
