package codexsdk

import (
	"context"

	"github.com/wagiedev/codex-proto-go/internal/client"
)

// Session is a running `codex proto` process.
//
// Sends never block: submissions are queued and written by a background
// pump. Events arrive on Events until codex closes stdout. Close is
// idempotent and always returns nil.
//
// Example usage:
//
//	session, err := codexsdk.NewSession(ctx, codexsdk.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	if err := session.SendUserInput("Summarize README.md"); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range session.Events() {
//	    // Process event...
//	}
type Session = client.Session

// NewSession locates codex, launches it in proto mode and starts the pumps.
//
// Options are copied; later changes by the caller have no effect on the
// session. Returns a *DiscoveryError if codex cannot be found and a
// *SpawnError if it cannot be started.
//
// The context bounds discovery and launch only. The session keeps running
// after ctx is done until Close is called or codex exits.
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return client.Start(ctx, applyOptions(opts))
}
