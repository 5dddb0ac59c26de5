// Package bridge exposes a session manager over a websocket so a remote UI
// can drive codex sessions.
//
// Clients send requests of the form {"id": ..., "cmd": "...", "args": {...}}
// and receive {"id": ..., "payload": {"status": "success"|"error",
// "payload": ...}}. Command arguments are validated against JSON schemas
// inferred from the argument types. Session output is pushed to every
// connected client as {"event": "codex-event-<session_id>", "payload": ...}
// and stderr lines as {"event": "codex-error:<session_id>", "payload": ...}.
package bridge
