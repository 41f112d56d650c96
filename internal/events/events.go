// Package events fans out engine notifications to UI subscribers. Fan-out
// never blocks a publisher: slow subscribers drop events. A small ring
// buffer keeps recent history for late-attaching observers.
package events

import (
	"fmt"
	"time"
)

// Event names published by the engine.
const (
	SceneChanged    = "scene.changed"
	RenderStarted   = "render.started"
	RenderSucceeded = "render.succeeded"
	RenderFailed    = "render.failed"
)

var allowedEvents = map[string]struct{}{
	SceneChanged:    {},
	RenderStarted:   {},
	RenderSucceeded: {},
	RenderFailed:    {},
}

// Validate rejects event names outside the published set, so a typo in an
// emitter fails loudly instead of producing an event nobody handles.
func Validate(name string) error {
	if _, ok := allowedEvents[name]; !ok {
		return fmt.Errorf("unknown event name: %q", name)
	}
	return nil
}

// Event is one notification.
type Event struct {
	Time   time.Time
	Name   string
	Fields map[string]any
}
