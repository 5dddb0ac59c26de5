package bridge

import (
	"encoding/json"

	"github.com/wagiedev/codex-proto-go/internal/settings"
)

// Command names.
const (
	CmdStartSession  = "start_codex_session"
	CmdSendMessage   = "send_message"
	CmdApproveExec   = "approve_execution"
	CmdApprovePatch  = "approve_patch"
	CmdPauseSession  = "pause_session"
	CmdCloseSession  = "close_session"
	CmdCheckVersion  = "check_codex_version"
	CmdListSessions  = "list_sessions"
	CmdRemoteStatus  = "get_remote_ui_status"
	StatusSuccess    = "success"
	StatusError      = "error"
	eventPrefix      = "codex-event-"
	errorEventPrefix = "codex-error:"
)

// Request is one command sent by a client. ID is echoed back verbatim and
// may be any JSON value.
type Request struct {
	ID   json.RawMessage `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID      json.RawMessage `json:"id"`
	Payload Result          `json:"payload"`
}

// Result is the status envelope inside a Response.
type Result struct {
	Status  string `json:"status"`
	Payload any    `json:"payload"`
}

// Push is an unsolicited message carrying session output.
type Push struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// EventName returns the push event name for a session's codex events.
func EventName(sessionID string) string {
	return eventPrefix + sessionID
}

// ErrorEventName returns the push event name for a session's stderr.
func ErrorEventName(sessionID string) string {
	return errorEventPrefix + sessionID
}

//nolint:tagliatelle // snake_case matches the remote UI protocol
type startSessionArgs struct {
	SessionID string           `json:"session_id" jsonschema:"id to register the session under"`
	Config    settings.Session `json:"config,omitempty" jsonschema:"overrides for the configured session defaults"`
}

//nolint:tagliatelle // snake_case matches the remote UI protocol
type sessionArgs struct {
	SessionID string `json:"session_id"`
}

//nolint:tagliatelle // snake_case matches the remote UI protocol
type sendMessageArgs struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

//nolint:tagliatelle // snake_case matches the remote UI protocol
type approvalArgs struct {
	SessionID  string `json:"session_id"`
	ApprovalID string `json:"approval_id" jsonschema:"id of the approval request event"`
	Approved   bool   `json:"approved"`
}

type noArgs struct{}

// Status is the payload of get_remote_ui_status.
//
//nolint:tagliatelle // snake_case matches the remote UI protocol
type Status struct {
	Running       bool   `json:"running"`
	Addr          string `json:"addr,omitempty"`
	Clients       int    `json:"clients"`
	Sessions      int    `json:"sessions"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
