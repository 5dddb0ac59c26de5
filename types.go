package codexsdk

import (
	"github.com/wagiedev/codex-proto-go/internal/client"
	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/message"
	"github.com/wagiedev/codex-proto-go/internal/sandbox"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// SessionOptions configures a codex proto session.
type SessionOptions = config.Options

// SpawnMode selects how the codex process is launched.
type SpawnMode = config.SpawnMode

const (
	// SpawnDirect executes codex with three plain pipes.
	SpawnDirect = config.SpawnDirect
	// SpawnScript wraps codex in script(1), falling back to stdbuf.
	SpawnScript = config.SpawnScript
	// SpawnPTY attaches codex's stdout to a pseudo-terminal.
	SpawnPTY = config.SpawnPTY
)

// SandboxMode selects how much of the filesystem codex may touch.
type SandboxMode = sandbox.Mode

const (
	// SandboxReadOnly lets codex read files but not modify them.
	SandboxReadOnly = sandbox.ReadOnly
	// SandboxWorkspaceWrite lets codex write inside its working directory.
	SandboxWorkspaceWrite = sandbox.WorkspaceWrite
	// SandboxDangerFullAccess disables sandboxing.
	SandboxDangerFullAccess = sandbox.DangerFullAccess
)

// Approval policies accepted by codex.
const (
	ApprovalUntrusted = config.ApprovalUntrusted
	ApprovalOnFailure = config.ApprovalOnFailure
	ApprovalOnRequest = config.ApprovalOnRequest
	ApprovalNever     = config.ApprovalNever
)

// ===== Launch Extension Points =====

// Command is a fully resolved codex invocation.
type Command = config.Command

// Launcher starts a Command and returns its stdio handles.
type Launcher = config.Launcher

// Discoverer locates the codex binary.
type Discoverer = config.Discoverer

// Handles are the stdio pipes and process handle of a launched codex.
type Handles = config.Handles

// Process is the handle to a launched process.
type Process = config.Process

// ===== Session State =====

// SessionState is the lifecycle phase of a Session.
type SessionState = client.State

const (
	// StateStarting covers command building and process launch.
	StateStarting = client.StateStarting
	// StateRunning means sends are accepted.
	StateRunning = client.StateRunning
	// StateClosing is entered when Close begins.
	StateClosing = client.StateClosing
	// StateClosed is final.
	StateClosed = client.StateClosed
)

// ===== Input Items =====

// InputItem is one block of user input.
type InputItem = message.InputItem

// TextItem is plain text input.
type TextItem = message.TextItem

// ImageItem is an image referenced by URL.
type ImageItem = message.ImageItem

// LocalImageItem is an image file on the machine running codex.
type LocalImageItem = message.LocalImageItem

// ===== Events =====

// Event is one message emitted by codex.
type Event = message.Event

// EventMsg is the payload of an Event; use a type switch on it.
type EventMsg = message.EventMsg

// Event kinds.
type (
	ErrorEvent                     = message.ErrorEvent
	TaskStartedEvent               = message.TaskStartedEvent
	TaskCompleteEvent              = message.TaskCompleteEvent
	TokenCountEvent                = message.TokenCountEvent
	AgentMessageEvent              = message.AgentMessageEvent
	AgentMessageDeltaEvent         = message.AgentMessageDeltaEvent
	AgentReasoningEvent            = message.AgentReasoningEvent
	AgentReasoningDeltaEvent       = message.AgentReasoningDeltaEvent
	AgentReasoningRawContentEvent  = message.AgentReasoningRawContentEvent
	SessionConfiguredEvent         = message.SessionConfiguredEvent
	ExecCommandBeginEvent          = message.ExecCommandBeginEvent
	ExecCommandEndEvent            = message.ExecCommandEndEvent
	ExecApprovalRequestEvent       = message.ExecApprovalRequestEvent
	ApplyPatchApprovalRequestEvent = message.ApplyPatchApprovalRequestEvent
	PatchApplyBeginEvent           = message.PatchApplyBeginEvent
	PatchApplyEndEvent             = message.PatchApplyEndEvent
	BackgroundEvent                = message.BackgroundEvent
	TurnDiffEvent                  = message.TurnDiffEvent
	ShutdownCompleteEvent          = message.ShutdownCompleteEvent
	UnknownEvent                   = message.UnknownEvent
)

// Event type names as they appear in msg.type.
const (
	EventTypeError                     = message.TypeError
	EventTypeTaskStarted               = message.TypeTaskStarted
	EventTypeTaskComplete              = message.TypeTaskComplete
	EventTypeAgentMessage              = message.TypeAgentMessage
	EventTypeAgentMessageDelta         = message.TypeAgentMessageDelta
	EventTypeExecApprovalRequest       = message.TypeExecApprovalRequest
	EventTypeApplyPatchApprovalRequest = message.TypeApplyPatchApprovalRequest
	EventTypeShutdownComplete          = message.TypeShutdownComplete
)
