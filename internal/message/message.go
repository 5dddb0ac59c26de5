package message

import "encoding/json"

// Event type constants, matching the "type" field of an event's msg object.
const (
	TypeError                     = "error"
	TypeTaskStarted               = "task_started"
	TypeTaskComplete              = "task_complete"
	TypeTokenCount                = "token_count"
	TypeAgentMessage              = "agent_message"
	TypeAgentMessageDelta         = "agent_message_delta"
	TypeAgentReasoning            = "agent_reasoning"
	TypeAgentReasoningDelta       = "agent_reasoning_delta"
	TypeAgentReasoningRawContent  = "agent_reasoning_raw_content"
	TypeSessionConfigured         = "session_configured"
	TypeExecCommandBegin          = "exec_command_begin"
	TypeExecCommandEnd            = "exec_command_end"
	TypeExecApprovalRequest       = "exec_approval_request"
	TypeApplyPatchApprovalRequest = "apply_patch_approval_request"
	TypePatchApplyBegin           = "patch_apply_begin"
	TypePatchApplyEnd             = "patch_apply_end"
	TypeBackgroundEvent           = "background_event"
	TypeTurnDiff                  = "turn_diff"
	TypeShutdownComplete          = "shutdown_complete"
)

// Event is one message emitted by codex on stdout.
//
// Msg is always set: known kinds decode into their concrete type, anything
// else into *UnknownEvent. Raw keeps the exact line so the event can be
// republished unchanged.
type Event struct {
	ID  string
	Msg EventMsg
	Raw json.RawMessage
}

// Type returns the event kind, or "" when codex sent no msg.type.
func (e *Event) Type() string {
	if e == nil || e.Msg == nil {
		return ""
	}

	return e.Msg.EventType()
}

// MarshalJSON implements json.Marshaler by returning the original line.
func (e *Event) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return []byte("null"), nil
	}

	return e.Raw, nil
}

// EventMsg is the payload of an Event.
// Use a type switch to determine the concrete kind.
type EventMsg interface {
	EventType() string
}

// Compile-time verification that all event kinds implement EventMsg.
var (
	_ EventMsg = (*ErrorEvent)(nil)
	_ EventMsg = (*TaskStartedEvent)(nil)
	_ EventMsg = (*TaskCompleteEvent)(nil)
	_ EventMsg = (*TokenCountEvent)(nil)
	_ EventMsg = (*AgentMessageEvent)(nil)
	_ EventMsg = (*AgentMessageDeltaEvent)(nil)
	_ EventMsg = (*AgentReasoningEvent)(nil)
	_ EventMsg = (*AgentReasoningDeltaEvent)(nil)
	_ EventMsg = (*AgentReasoningRawContentEvent)(nil)
	_ EventMsg = (*SessionConfiguredEvent)(nil)
	_ EventMsg = (*ExecCommandBeginEvent)(nil)
	_ EventMsg = (*ExecCommandEndEvent)(nil)
	_ EventMsg = (*ExecApprovalRequestEvent)(nil)
	_ EventMsg = (*ApplyPatchApprovalRequestEvent)(nil)
	_ EventMsg = (*PatchApplyBeginEvent)(nil)
	_ EventMsg = (*PatchApplyEndEvent)(nil)
	_ EventMsg = (*BackgroundEvent)(nil)
	_ EventMsg = (*TurnDiffEvent)(nil)
	_ EventMsg = (*ShutdownCompleteEvent)(nil)
	_ EventMsg = (*UnknownEvent)(nil)
)

// ErrorEvent reports a failure inside codex.
type ErrorEvent struct {
	Message string `json:"message"`
}

// EventType implements the EventMsg interface.
func (e *ErrorEvent) EventType() string { return TypeError }

// TaskStartedEvent marks the start of a turn.
//
//nolint:tagliatelle // codex uses snake_case
type TaskStartedEvent struct {
	ModelContextWindow *int64 `json:"model_context_window,omitempty"`
}

// EventType implements the EventMsg interface.
func (e *TaskStartedEvent) EventType() string { return TypeTaskStarted }

// TaskCompleteEvent marks the end of a turn.
//
//nolint:tagliatelle // codex uses snake_case
type TaskCompleteEvent struct {
	LastAgentMessage *string `json:"last_agent_message,omitempty"`
}

// EventType implements the EventMsg interface.
func (e *TaskCompleteEvent) EventType() string { return TypeTaskComplete }

// TokenCountEvent reports token usage.
//
//nolint:tagliatelle // codex uses snake_case
type TokenCountEvent struct {
	InputTokens           int64 `json:"input_tokens"`
	CachedInputTokens     int64 `json:"cached_input_tokens"`
	OutputTokens          int64 `json:"output_tokens"`
	ReasoningOutputTokens int64 `json:"reasoning_output_tokens"`
	TotalTokens           int64 `json:"total_tokens"`
}

// EventType implements the EventMsg interface.
func (e *TokenCountEvent) EventType() string { return TypeTokenCount }

// AgentMessageEvent is a complete agent reply.
type AgentMessageEvent struct {
	Message string `json:"message"`
}

// EventType implements the EventMsg interface.
func (e *AgentMessageEvent) EventType() string { return TypeAgentMessage }

// AgentMessageDeltaEvent is a streamed fragment of an agent reply.
type AgentMessageDeltaEvent struct {
	Delta string `json:"delta"`
}

// EventType implements the EventMsg interface.
func (e *AgentMessageDeltaEvent) EventType() string { return TypeAgentMessageDelta }

// AgentReasoningEvent is a reasoning summary.
type AgentReasoningEvent struct {
	Text string `json:"text"`
}

// EventType implements the EventMsg interface.
func (e *AgentReasoningEvent) EventType() string { return TypeAgentReasoning }

// AgentReasoningDeltaEvent is a streamed fragment of a reasoning summary.
type AgentReasoningDeltaEvent struct {
	Delta string `json:"delta"`
}

// EventType implements the EventMsg interface.
func (e *AgentReasoningDeltaEvent) EventType() string { return TypeAgentReasoningDelta }

// AgentReasoningRawContentEvent is raw chain of thought, only sent when
// show_raw_agent_reasoning is enabled.
type AgentReasoningRawContentEvent struct {
	Text string `json:"text"`
}

// EventType implements the EventMsg interface.
func (e *AgentReasoningRawContentEvent) EventType() string { return TypeAgentReasoningRawContent }

// SessionConfiguredEvent is the first event of a session.
//
//nolint:tagliatelle // codex uses snake_case
type SessionConfiguredEvent struct {
	SessionID         string `json:"session_id"`
	Model             string `json:"model"`
	HistoryLogID      uint64 `json:"history_log_id"`
	HistoryEntryCount int    `json:"history_entry_count"`
}

// EventType implements the EventMsg interface.
func (e *SessionConfiguredEvent) EventType() string { return TypeSessionConfigured }

// ExecCommandBeginEvent announces a command codex is about to run.
//
//nolint:tagliatelle // codex uses snake_case
type ExecCommandBeginEvent struct {
	CallID  string   `json:"call_id"`
	Command []string `json:"command"`
	Cwd     string   `json:"cwd"`
}

// EventType implements the EventMsg interface.
func (e *ExecCommandBeginEvent) EventType() string { return TypeExecCommandBegin }

// ExecCommandEndEvent reports a finished command.
//
//nolint:tagliatelle // codex uses snake_case
type ExecCommandEndEvent struct {
	CallID   string `json:"call_id"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// EventType implements the EventMsg interface.
func (e *ExecCommandEndEvent) EventType() string { return TypeExecCommandEnd }

// ExecApprovalRequestEvent asks the caller to approve a command.
// Answer with an exec_approval submission carrying the event's ID.
//
//nolint:tagliatelle // codex uses snake_case
type ExecApprovalRequestEvent struct {
	CallID  string   `json:"call_id"`
	Command []string `json:"command"`
	Cwd     string   `json:"cwd"`
	Reason  *string  `json:"reason,omitempty"`
}

// EventType implements the EventMsg interface.
func (e *ExecApprovalRequestEvent) EventType() string { return TypeExecApprovalRequest }

// ApplyPatchApprovalRequestEvent asks the caller to approve a patch.
// Answer with a patch_approval submission carrying the event's ID.
//
//nolint:tagliatelle // codex uses snake_case
type ApplyPatchApprovalRequestEvent struct {
	CallID    string                     `json:"call_id"`
	Changes   map[string]json.RawMessage `json:"changes"`
	Reason    *string                    `json:"reason,omitempty"`
	GrantRoot *string                    `json:"grant_root,omitempty"`
}

// EventType implements the EventMsg interface.
func (e *ApplyPatchApprovalRequestEvent) EventType() string { return TypeApplyPatchApprovalRequest }

// PatchApplyBeginEvent announces a patch being applied.
//
//nolint:tagliatelle // codex uses snake_case
type PatchApplyBeginEvent struct {
	CallID       string                     `json:"call_id"`
	AutoApproved bool                       `json:"auto_approved"`
	Changes      map[string]json.RawMessage `json:"changes"`
}

// EventType implements the EventMsg interface.
func (e *PatchApplyBeginEvent) EventType() string { return TypePatchApplyBegin }

// PatchApplyEndEvent reports the outcome of a patch.
//
//nolint:tagliatelle // codex uses snake_case
type PatchApplyEndEvent struct {
	CallID  string `json:"call_id"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
	Success bool   `json:"success"`
}

// EventType implements the EventMsg interface.
func (e *PatchApplyEndEvent) EventType() string { return TypePatchApplyEnd }

// BackgroundEvent is an informational notice.
type BackgroundEvent struct {
	Message string `json:"message"`
}

// EventType implements the EventMsg interface.
func (e *BackgroundEvent) EventType() string { return TypeBackgroundEvent }

// TurnDiffEvent carries the unified diff accumulated during a turn.
//
//nolint:tagliatelle // codex uses snake_case
type TurnDiffEvent struct {
	UnifiedDiff string `json:"unified_diff"`
}

// EventType implements the EventMsg interface.
func (e *TurnDiffEvent) EventType() string { return TypeTurnDiff }

// ShutdownCompleteEvent acknowledges a shutdown submission.
type ShutdownCompleteEvent struct{}

// EventType implements the EventMsg interface.
func (e *ShutdownCompleteEvent) EventType() string { return TypeShutdownComplete }

// UnknownEvent carries any kind this package does not model, or a known kind
// whose payload did not match the expected shape.
type UnknownEvent struct {
	Type string
	Data map[string]any
}

// EventType implements the EventMsg interface.
func (e *UnknownEvent) EventType() string { return e.Type }
