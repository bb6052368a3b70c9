package reply

// State is the request lifecycle. Exactly one of Idle, InFlight, Succeeded or
// Failed holds at a time; the unexported method keeps the set closed.
type State interface {
	isState()
}

// Idle is the state before the first submission.
type Idle struct{}

// InFlight means a generate request has been issued and not yet resolved.
type InFlight struct{}

// Succeeded carries the reply text to display.
type Succeeded struct {
	Reply string
}

// Failed carries the human-readable error to display.
type Failed struct {
	Message string
}

func (Idle) isState()      {}
func (InFlight) isState()  {}
func (Succeeded) isState() {}
func (Failed) isState()    {}

// IsInFlight reports whether s is the InFlight variant.
func IsInFlight(s State) bool {
	_, ok := s.(InFlight)
	return ok
}
