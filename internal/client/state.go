package client

// State is the lifecycle phase of a Session.
type State int32

const (
	// StateStarting covers command building and process launch.
	StateStarting State = iota
	// StateRunning means the pumps are live and sends are accepted.
	StateRunning
	// StateClosing is entered when Close begins.
	StateClosing
	// StateClosed is final.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
