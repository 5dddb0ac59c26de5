package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
)

// command is one entry of the dispatch table.
type command struct {
	schema *jsonschema.Resolved
	run    func(ctx context.Context, raw json.RawMessage) (any, error)
}

// newCommand infers the argument schema from T and wraps run with
// validation and decoding.
func newCommand[T any](run func(ctx context.Context, args *T) (any, error)) *command {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("infer schema for %T: %v", *new(T), err))
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("resolve schema for %T: %v", *new(T), err))
	}

	c := &command{schema: resolved}
	c.run = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var instance map[string]any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &instance); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
		}

		if instance == nil {
			instance = map[string]any{}
		}

		if err := resolved.Validate(instance); err != nil {
			return nil, fmt.Errorf("invalid args: %w", err)
		}

		var args T
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
		}

		return run(ctx, &args)
	}

	return c
}

// commands builds the dispatch table for s.
func (s *Server) commands() map[string]*command {
	return map[string]*command{
		CmdStartSession: newCommand(func(ctx context.Context, args *startSessionArgs) (any, error) {
			opts := s.defaults().Merge(args.Config).Options(s.base)

			sess, err := s.mgr.Start(ctx, args.SessionID, opts)
			if err != nil {
				return nil, err
			}

			return map[string]any{"session_id": sess.ID(), "pid": sess.Pid()}, nil
		}),
		CmdSendMessage: newCommand(func(_ context.Context, args *sendMessageArgs) (any, error) {
			return nil, s.mgr.Send(args.SessionID, args.Message)
		}),
		CmdApproveExec: newCommand(func(_ context.Context, args *approvalArgs) (any, error) {
			return nil, s.mgr.ApproveExecution(args.SessionID, args.ApprovalID, args.Approved)
		}),
		CmdApprovePatch: newCommand(func(_ context.Context, args *approvalArgs) (any, error) {
			return nil, s.mgr.ApprovePatch(args.SessionID, args.ApprovalID, args.Approved)
		}),
		CmdPauseSession: newCommand(func(_ context.Context, args *sessionArgs) (any, error) {
			return nil, s.mgr.Interrupt(args.SessionID)
		}),
		CmdCloseSession: newCommand(func(_ context.Context, args *sessionArgs) (any, error) {
			return nil, s.mgr.Close(args.SessionID)
		}),
		CmdCheckVersion: newCommand(func(ctx context.Context, _ *noArgs) (any, error) {
			return s.version(ctx, s.defaults().CodexPath)
		}),
		CmdListSessions: newCommand(func(context.Context, *noArgs) (any, error) {
			return s.mgr.List(), nil
		}),
		CmdRemoteStatus: newCommand(func(context.Context, *noArgs) (any, error) {
			return s.status(), nil
		}),
	}
}

func (s *Server) status() Status {
	s.clientsMu.RLock()
	clients := len(s.clients)
	s.clientsMu.RUnlock()

	return Status{
		Running:       true,
		Addr:          s.addr,
		Clients:       clients,
		Sessions:      s.mgr.Len(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
}
