package codexsdk

import "github.com/wagiedev/codex-proto-go/internal/errors"

// Re-export error types from internal package

// CodexSDKError is the base interface for all SDK errors.
type CodexSDKError = errors.CodexSDKError

// DiscoveryError indicates the codex binary was not found.
type DiscoveryError = errors.DiscoveryError

// SpawnError indicates the codex process could not be started.
type SpawnError = errors.SpawnError

// EncodeError indicates a submission could not be serialized.
type EncodeError = errors.EncodeError

// DecodeError indicates a line printed by codex is not a valid event.
type DecodeError = errors.DecodeError

// PipeError indicates a read or write on one of the process pipes failed.
type PipeError = errors.PipeError

// ProcessError indicates a short-lived codex invocation failed.
type ProcessError = errors.ProcessError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionClosed indicates the session was closed or its writer is gone.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrSessionNotFound indicates a manager has no session with the given id.
	ErrSessionNotFound = errors.ErrSessionNotFound

	// ErrSessionExists indicates a manager already has a session with the given id.
	ErrSessionExists = errors.ErrSessionExists

	// ErrTooManySessions indicates a manager reached its session limit.
	ErrTooManySessions = errors.ErrTooManySessions
)
