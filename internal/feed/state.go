package feed

// State is the lifecycle state of a Controller's channel. It is owned
// exclusively by one Controller instance and never shared across views.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateClosedRetrying
	StateClosedTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosedRetrying:
		return "closed-will-retry"
	case StateClosedTerminal:
		return "closed-terminal"
	}
	return "unknown"
}
