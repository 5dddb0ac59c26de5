// Package codexsdk provides a Go client for the codex agent's proto mode.
//
// A Session launches `codex proto` as a subprocess, writes submissions to its
// stdin as newline-delimited JSON and decodes the events it prints on stdout.
// Process lifecycle, buffering and framing stay inside the session; callers
// only see typed sends and a channel of events.
//
// # Basic Usage
//
//	ctx := context.Background()
//	session, err := codexsdk.NewSession(ctx,
//	    codexsdk.WithModel("gpt-5"),
//	    codexsdk.WithSandboxMode("workspace-write"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	if err := session.SendUserInput("What is 2+2?"); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range session.Events() {
//	    switch m := event.Msg.(type) {
//	    case *codexsdk.AgentMessageEvent:
//	        fmt.Println(m.Message)
//	    case *codexsdk.TaskCompleteEvent:
//	        return
//	    }
//	}
//
// # Approvals
//
// When codex asks for permission to run a command or apply a patch it emits
// an ExecApprovalRequestEvent or ApplyPatchApprovalRequestEvent. Answer with
// the event's id:
//
//	case *codexsdk.ExecApprovalRequestEvent:
//	    session.ApproveExecution(event.ID, true)
//
// # Launch Strategies
//
// Codex block-buffers its output when stdout is not a terminal. WithSpawnMode
// selects how the process is started: SpawnDirect (plain pipes), SpawnScript
// (wrapped in script(1) or stdbuf) or SpawnPTY (stdout on a pseudo-terminal).
//
// # Multiple Sessions
//
// NewManager keeps several sessions keyed by id and fans their output out to a
// single Listener.
//
// # Error Handling
//
// Creation errors are returned from NewSession. Steady-state failures (bad
// output lines, broken pipes) are logged and, for decode failures, delivered
// on Errors. Sends after Close return ErrSessionClosed.
//
//	session, err := codexsdk.NewSession(ctx)
//	if notFound, ok := errors.AsType[*codexsdk.DiscoveryError](err); ok {
//	    fmt.Println("searched:", notFound.SearchedPaths)
//	}
package codexsdk
