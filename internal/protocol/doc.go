// Package protocol implements the line codec for the codex proto wire format.
//
// Callers build Submissions with the constructors in this package, encode them
// with Encode and hand the bytes to the session's outbound queue. Lines read
// from codex stdout are turned into events with Decode.
//
// Every submission carries a fresh UUID v4 identifier. Codex echoes the
// identifier of the submission that triggered an event, but no reply
// correlation is performed here: events are delivered in arrival order.
//
// Example usage:
//
//	sub := protocol.NewUserInput(&message.TextItem{Text: "hello"})
//	line, err := protocol.Encode(sub)
package protocol
