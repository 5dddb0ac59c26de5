package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/fatih/color"

	codexsdk "github.com/wagiedev/codex-proto-go"
)

// renderer prints events for a human. Streamed deltas are written inline;
// the final agent_message is only printed when no deltas preceded it.
type renderer struct {
	mu        sync.Mutex
	out       io.Writer
	streaming bool

	agent     *color.Color
	reasoning *color.Color
	command   *color.Color
	approval  *color.Color
	failure   *color.Color
	dim       *color.Color
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{
		out:       out,
		agent:     color.New(color.FgWhite, color.Bold),
		reasoning: color.New(color.FgMagenta, color.Italic),
		command:   color.New(color.FgCyan),
		approval:  color.New(color.FgYellow, color.Bold),
		failure:   color.New(color.FgRed),
		dim:       color.New(color.Faint),
	}
}

func (r *renderer) render(event *codexsdk.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch m := event.Msg.(type) {
	case *codexsdk.SessionConfiguredEvent:
		r.dim.Fprintf(r.out, "model %s\n", m.Model)

	case *codexsdk.AgentMessageDeltaEvent:
		r.streaming = true
		r.agent.Fprint(r.out, m.Delta)

	case *codexsdk.AgentMessageEvent:
		if r.streaming {
			fmt.Fprintln(r.out)
			r.streaming = false

			return
		}

		r.agent.Fprintln(r.out, m.Message)

	case *codexsdk.AgentReasoningEvent:
		r.endStream()
		r.reasoning.Fprintln(r.out, m.Text)

	case *codexsdk.AgentReasoningRawContentEvent:
		r.endStream()
		r.reasoning.Fprintln(r.out, m.Text)

	case *codexsdk.ExecCommandBeginEvent:
		r.endStream()
		r.command.Fprintf(r.out, "$ %s\n", strings.Join(m.Command, " "))

	case *codexsdk.ExecCommandEndEvent:
		if m.ExitCode != 0 {
			r.failure.Fprintf(r.out, "exit %d\n", m.ExitCode)
		}

	case *codexsdk.ExecApprovalRequestEvent:
		r.endStream()
		r.approval.Fprintf(r.out, "codex wants to run: %s\n", strings.Join(m.Command, " "))

		if m.Reason != nil {
			r.dim.Fprintf(r.out, "  reason: %s\n", *m.Reason)
		}

		r.dim.Fprintf(r.out, "  /approve %s or /deny %s\n", event.ID, event.ID)

	case *codexsdk.ApplyPatchApprovalRequestEvent:
		r.endStream()

		files := make([]string, 0, len(m.Changes))
		for path := range m.Changes {
			files = append(files, path)
		}

		slices.Sort(files)

		r.approval.Fprintf(r.out, "codex wants to edit: %s\n", strings.Join(files, ", "))
		r.dim.Fprintf(r.out, "  /approve-patch %s or /deny-patch %s\n", event.ID, event.ID)

	case *codexsdk.PatchApplyEndEvent:
		if !m.Success {
			r.failure.Fprintln(r.out, "patch failed")
		}

	case *codexsdk.ErrorEvent:
		r.endStream()
		r.failure.Fprintf(r.out, "error: %s\n", m.Message)

	case *codexsdk.BackgroundEvent:
		r.dim.Fprintln(r.out, m.Message)

	case *codexsdk.TaskCompleteEvent:
		r.endStream()
		r.dim.Fprintln(r.out, "--")
	}
}

func (r *renderer) endStream() {
	if r.streaming {
		fmt.Fprintln(r.out)
		r.streaming = false
	}
}

func (r *renderer) notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.endStream()
	r.dim.Fprintln(r.out, msg)
}

func (r *renderer) warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.endStream()
	r.failure.Fprintln(r.out, msg)
}
