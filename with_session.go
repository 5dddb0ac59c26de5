package codexsdk

import (
	"context"
	"fmt"
)

// WithSession manages session lifecycle with automatic cleanup.
//
// It starts a session with the provided options, runs fn and closes the
// session when fn returns. The error from fn is returned unchanged.
//
// Example usage:
//
//	err := codexsdk.WithSession(ctx, func(s *codexsdk.Session) error {
//	    if err := s.SendUserInput("Hello"); err != nil {
//	        return err
//	    }
//	    for event := range s.Events() {
//	        if _, ok := event.Msg.(*codexsdk.TaskCompleteEvent); ok {
//	            return nil
//	        }
//	    }
//	    return nil
//	},
//	    codexsdk.WithLogger(log),
//	    codexsdk.WithApprovalPolicy(codexsdk.ApprovalOnRequest),
//	)
func WithSession(ctx context.Context, fn func(*Session) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	session, err := NewSession(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	defer session.Close()

	return fn(session)
}
