// Package client implements the Session, the caller-facing handle to one
// running codex proto process.
//
// A Session owns the process handle and the sending side of the outbound
// queue. Sends are encoded and queued without blocking; the writer pump
// delivers them in order. Events decoded from stdout are delivered on the
// Events channel, decode failures on Errors, and stderr lines to the
// configured callback.
//
// Close performs the shutdown sequence: a best-effort shutdown submission,
// closing the queue, killing the process and a bounded wait for the pumps.
package client
