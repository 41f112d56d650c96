package render

// State tracks a render request through its lifecycle. Succeeded and
// Failed are terminal; a new request always starts a fresh machine.
type State int

const (
	StateIdle State = iota
	StateCompiling
	StateScriptWritten
	StateEngineRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompiling:
		return "compiling"
	case StateScriptWritten:
		return "script-written"
	case StateEngineRunning:
		return "engine-running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state is final for its request.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
