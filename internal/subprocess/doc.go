// Package subprocess runs the codex process and moves bytes across its pipes.
//
// Launchers start a config.Command with stdin, stdout and stderr redirected and
// hand back a config.Handles set. Three strategies exist: DirectLauncher,
// ScriptLauncher (wraps codex in a tty helper so it line-buffers) and
// PTYLauncher (native pseudo-terminal on stdout only).
//
// Once launched, RunPumps drives the three pump goroutines: the writer drains
// the outbound Queue into stdin, the output reader decodes stdout lines into
// events and the error reader forwards stderr lines. The pumps are supervised
// together by a Group.
package subprocess
