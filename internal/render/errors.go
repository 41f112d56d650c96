package render

import (
	"context"
	"errors"
	"fmt"
)

// Phase identifies where in a render request a failure happened.
type Phase string

const (
	PhaseCompile     Phase = "compile"
	PhaseWriteScript Phase = "write-script"
	PhaseEngine      Phase = "engine"
	PhaseCollect     Phase = "collect"
)

// BusyError reports a render request rejected because one of the same
// kind is already in flight. Requests are never queued; the caller
// retries explicitly.
type BusyError struct {
	Kind Kind
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("a %s render is already in flight", e.Kind)
}

// FailedError is the terminal failure of a render request. Stderr holds
// the engine's diagnostic output verbatim; it is usually the only
// actionable detail when the engine rejects a script or a system
// dependency is missing.
type FailedError struct {
	Phase    Phase
	ExitCode int
	Stderr   string
	Err      error
}

func (e *FailedError) Error() string {
	if e.Phase == PhaseEngine {
		return fmt.Sprintf("render failed in %s phase (exit code %d): %v", e.Phase, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("render failed in %s phase: %v", e.Phase, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// Cancelled reports whether the failure came from caller cancellation.
func (e *FailedError) Cancelled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// TimedOut reports whether the failure came from the process timeout.
func (e *FailedError) TimedOut() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Reason returns a short machine-readable cause for notifications.
func (e *FailedError) Reason() string {
	switch {
	case e.Cancelled():
		return "cancelled"
	case e.TimedOut():
		return "timeout"
	default:
		return string(e.Phase)
	}
}
