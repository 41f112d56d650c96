package render

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Request is the handle for one in-flight render. Callers observe its
// state machine, wait on Done, and read the terminal result.
type Request struct {
	ID   string
	Kind Kind

	mu       sync.Mutex
	state    State
	artifact Artifact
	err      error
	done     chan struct{}
}

func newRequest(kind Kind) *Request {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Request{
		ID:    string(kind) + "_" + raw[:8],
		Kind:  kind,
		state: StateIdle,
		done:  make(chan struct{}),
	}
}

// State returns the request's current lifecycle state.
func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed once the request reaches a terminal state.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Result returns the terminal outcome. Valid only after Done is closed.
func (r *Request) Result() (Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.artifact, r.err
}

func (r *Request) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Request) succeed(a Artifact) {
	r.mu.Lock()
	r.state = StateSucceeded
	r.artifact = a
	r.mu.Unlock()
	close(r.done)
}

func (r *Request) fail(err error) {
	r.mu.Lock()
	r.state = StateFailed
	r.err = err
	r.mu.Unlock()
	close(r.done)
}
