package disperse

// State of a transfer session
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateEditing
	StateReady
	StateSubmitting
	StatePending
	StateConfirmed
	StateFailed
)

var stateNames = [...]string{
	StateDisconnected: "DISCONNECTED",
	StateConnecting:   "CONNECTING",
	StateConnected:    "CONNECTED",
	StateEditing:      "EDITING",
	StateReady:        "READY",
	StateSubmitting:   "SUBMITTING",
	StatePending:      "PENDING",
	StateConfirmed:    "CONFIRMED",
	StateFailed:       "FAILED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// InFlight reports whether a transaction is outstanding in this state
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StatePending
}
