// Package manager keeps track of several codex sessions keyed by id.
//
// The manager starts sessions, routes sends and approvals to them and fans
// their output out to a single Listener, tagged with the session id. It is the
// backing store for the remote bridge and the chat command.
package manager
