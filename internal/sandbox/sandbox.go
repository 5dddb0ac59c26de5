// Package sandbox provides the sandbox modes understood by codex.
package sandbox

// Mode selects how much of the filesystem codex may touch.
type Mode string

const (
	// ReadOnly lets codex read files but not modify them.
	ReadOnly Mode = "read-only"
	// WorkspaceWrite lets codex write inside the working directory.
	WorkspaceWrite Mode = "workspace-write"
	// DangerFullAccess disables sandboxing entirely.
	DangerFullAccess Mode = "danger-full-access"
)

// Default is the mode any unrecognized value degrades to.
const Default = WorkspaceWrite

// Valid reports whether s names a known sandbox mode.
func Valid(s string) bool {
	switch Mode(s) {
	case ReadOnly, WorkspaceWrite, DangerFullAccess:
		return true
	}

	return false
}

// Normalize maps s to a known mode. Unknown values silently become Default;
// callers that want strict behavior should check Valid first.
func Normalize(s string) Mode {
	if Valid(s) {
		return Mode(s)
	}

	return Default
}
