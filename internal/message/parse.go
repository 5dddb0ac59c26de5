package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// factories maps known event kinds to constructors of their concrete type.
var factories = map[string]func() EventMsg{
	TypeError:                     func() EventMsg { return &ErrorEvent{} },
	TypeTaskStarted:               func() EventMsg { return &TaskStartedEvent{} },
	TypeTaskComplete:              func() EventMsg { return &TaskCompleteEvent{} },
	TypeTokenCount:                func() EventMsg { return &TokenCountEvent{} },
	TypeAgentMessage:              func() EventMsg { return &AgentMessageEvent{} },
	TypeAgentMessageDelta:         func() EventMsg { return &AgentMessageDeltaEvent{} },
	TypeAgentReasoning:            func() EventMsg { return &AgentReasoningEvent{} },
	TypeAgentReasoningDelta:       func() EventMsg { return &AgentReasoningDeltaEvent{} },
	TypeAgentReasoningRawContent:  func() EventMsg { return &AgentReasoningRawContentEvent{} },
	TypeSessionConfigured:         func() EventMsg { return &SessionConfiguredEvent{} },
	TypeExecCommandBegin:          func() EventMsg { return &ExecCommandBeginEvent{} },
	TypeExecCommandEnd:            func() EventMsg { return &ExecCommandEndEvent{} },
	TypeExecApprovalRequest:       func() EventMsg { return &ExecApprovalRequestEvent{} },
	TypeApplyPatchApprovalRequest: func() EventMsg { return &ApplyPatchApprovalRequestEvent{} },
	TypePatchApplyBegin:           func() EventMsg { return &PatchApplyBeginEvent{} },
	TypePatchApplyEnd:             func() EventMsg { return &PatchApplyEndEvent{} },
	TypeBackgroundEvent:           func() EventMsg { return &BackgroundEvent{} },
	TypeTurnDiff:                  func() EventMsg { return &TurnDiffEvent{} },
	TypeShutdownComplete:          func() EventMsg { return &ShutdownCompleteEvent{} },
}

// Parse decodes one line of codex stdout (without its newline) into an Event.
//
// The line must be a JSON object; anything else yields a DecodeError. Within
// a valid object the parser is lenient: a missing or unknown msg.type, or a
// known type whose fields do not match, produces an *UnknownEvent so newer
// codex versions never break the reader.
func Parse(log *slog.Logger, line []byte) (*Event, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(line, &envelope); err != nil {
		return nil, &errors.DecodeError{RawData: string(line), Err: err}
	}

	if envelope == nil {
		return nil, &errors.DecodeError{RawData: string(line), Err: fmt.Errorf("event is null")}
	}

	event := &Event{Raw: json.RawMessage(bytes.Clone(line))}

	if rawID, ok := envelope["id"]; ok {
		// Ids are strings in practice; anything else is kept only in Raw.
		_ = json.Unmarshal(rawID, &event.ID)
	}

	event.Msg = parseMsg(log, envelope["msg"])

	return event, nil
}

// parseMsg decodes the msg object, falling back to *UnknownEvent.
func parseMsg(log *slog.Logger, raw json.RawMessage) EventMsg {
	var data map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			log.Debug("Event msg is not an object", "error", err)
		}
	}

	msgType, _ := data["type"].(string)

	factory, ok := factories[msgType]
	if !ok {
		if msgType != "" {
			log.Debug("Keeping unknown event type", "event_type", msgType)
		}

		return &UnknownEvent{Type: msgType, Data: data}
	}

	msg := factory()
	if err := json.Unmarshal(raw, msg); err != nil {
		log.Debug("Event payload does not match its type", "event_type", msgType, "error", err)

		return &UnknownEvent{Type: msgType, Data: data}
	}

	return msg
}
