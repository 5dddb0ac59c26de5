package message

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	sdkerrors "github.com/wagiedev/codex-proto-go/internal/errors"
)

func TestParse_KnownEvents(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, msg EventMsg)
	}{
		{
			name: "session_configured",
			line: `{"id":"0","msg":{"type":"session_configured","session_id":"abc","model":"gpt-5","history_log_id":7,"history_entry_count":2}}`,
			check: func(t *testing.T, msg EventMsg) {
				ev, ok := msg.(*SessionConfiguredEvent)
				require.True(t, ok)
				require.Equal(t, "abc", ev.SessionID)
				require.Equal(t, "gpt-5", ev.Model)
				require.Equal(t, uint64(7), ev.HistoryLogID)
			},
		},
		{
			name: "agent_message_delta",
			line: `{"id":"1","msg":{"type":"agent_message_delta","delta":"Hel"}}`,
			check: func(t *testing.T, msg EventMsg) {
				ev, ok := msg.(*AgentMessageDeltaEvent)
				require.True(t, ok)
				require.Equal(t, "Hel", ev.Delta)
			},
		},
		{
			name: "exec_approval_request",
			line: `{"id":"2","msg":{"type":"exec_approval_request","call_id":"c1","command":["ls","-la"],"cwd":"/tmp","reason":"list"}}`,
			check: func(t *testing.T, msg EventMsg) {
				ev, ok := msg.(*ExecApprovalRequestEvent)
				require.True(t, ok)
				require.Equal(t, []string{"ls", "-la"}, ev.Command)
				require.Equal(t, "/tmp", ev.Cwd)
				require.NotNil(t, ev.Reason)
				require.Equal(t, "list", *ev.Reason)
			},
		},
		{
			name: "apply_patch_approval_request",
			line: `{"id":"3","msg":{"type":"apply_patch_approval_request","call_id":"c2","changes":{"a.go":{"add":{"content":"x"}}}}}`,
			check: func(t *testing.T, msg EventMsg) {
				ev, ok := msg.(*ApplyPatchApprovalRequestEvent)
				require.True(t, ok)
				require.Contains(t, ev.Changes, "a.go")
				require.Nil(t, ev.Reason)
			},
		},
		{
			name: "task_complete without message",
			line: `{"id":"4","msg":{"type":"task_complete"}}`,
			check: func(t *testing.T, msg EventMsg) {
				ev, ok := msg.(*TaskCompleteEvent)
				require.True(t, ok)
				require.Nil(t, ev.LastAgentMessage)
			},
		},
		{
			name: "shutdown_complete",
			line: `{"id":"5","msg":{"type":"shutdown_complete"}}`,
			check: func(t *testing.T, msg EventMsg) {
				require.IsType(t, &ShutdownCompleteEvent{}, msg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := Parse(logger, []byte(tt.line))
			require.NoError(t, err)
			require.NotEmpty(t, event.ID)
			tt.check(t, event.Msg)
		})
	}
}

func TestParse_UnknownTypeKeepsData(t *testing.T) {
	event, err := Parse(slog.Default(), []byte(`{"id":"9","msg":{"type":"mcp_tool_call_begin","server":"fs"}}`))
	require.NoError(t, err)

	unknown, ok := event.Msg.(*UnknownEvent)
	require.True(t, ok)
	require.Equal(t, "mcp_tool_call_begin", event.Type())
	require.Equal(t, "fs", unknown.Data["server"])
}

func TestParse_MismatchedPayloadDegrades(t *testing.T) {
	event, err := Parse(slog.Default(), []byte(`{"id":"9","msg":{"type":"agent_message","message":42}}`))
	require.NoError(t, err)

	unknown, ok := event.Msg.(*UnknownEvent)
	require.True(t, ok)
	require.Equal(t, TypeAgentMessage, unknown.Type)
	require.InDelta(t, 42, unknown.Data["message"], 0)
}

func TestParse_MissingMsg(t *testing.T) {
	event, err := Parse(slog.Default(), []byte(`{"id":"x"}`))
	require.NoError(t, err)
	require.Equal(t, "x", event.ID)
	require.Empty(t, event.Type())
	require.IsType(t, &UnknownEvent{}, event.Msg)
}

func TestParse_Malformed(t *testing.T) {
	for _, line := range []string{"not-json", `{"id":`, `[1,2]`, `"text"`, `null`, ``} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(slog.Default(), []byte(line))

			decodeErr, ok := stderrors.AsType[*sdkerrors.DecodeError](err)
			require.True(t, ok)
			require.Equal(t, line, decodeErr.RawData)
		})
	}
}

func TestEvent_MarshalJSONRepublishesRaw(t *testing.T) {
	line := `{"id":"1","msg":{"type":"agent_message","message":"hi"},"extra":{"k":[1,2]}}`

	event, err := Parse(slog.Default(), []byte(line))
	require.NoError(t, err)

	out, err := json.Marshal(event)
	require.NoError(t, err)
	require.JSONEq(t, line, string(out))
}

func TestParse_RawIsCopied(t *testing.T) {
	buf := []byte(`{"id":"1","msg":{"type":"background_event","message":"m"}}`)

	event, err := Parse(slog.Default(), buf)
	require.NoError(t, err)

	buf[2] = 'X'

	require.Contains(t, string(event.Raw), `"id"`)
}

func TestUnmarshalInputItem(t *testing.T) {
	item, err := UnmarshalInputItem([]byte(`{"type":"text","text":"hello"}`))
	require.NoError(t, err)
	require.Equal(t, &TextItem{Text: "hello"}, item)

	item, err = UnmarshalInputItem([]byte(`{"type":"local_image","path":"/tmp/a.png"}`))
	require.NoError(t, err)
	require.Equal(t, &LocalImageItem{Path: "/tmp/a.png"}, item)

	_, err = UnmarshalInputItem([]byte(`{"type":"video"}`))
	require.Error(t, err)
}

func TestInputItem_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]InputItem{
		&TextItem{Text: "hi"},
		&ImageItem{ImageURL: "data:image/png;base64,AAA"},
		&LocalImageItem{Path: "/x.png"},
	})
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"type":"text","text":"hi"},
		{"type":"image","image_url":"data:image/png;base64,AAA"},
		{"type":"local_image","path":"/x.png"}
	]`, string(data))
}
