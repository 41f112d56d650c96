package scene

import (
	"fmt"

	"github.com/tailwiinder/easymanim/internal/schema"
)

// ObjectNotFoundError reports a lookup for an id that is not in the scene.
type ObjectNotFoundError struct {
	ID string
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s", e.ID)
}

// InvalidPropertyValueError reports a property write rejected by the
// schema. The store is unchanged when this is returned.
type InvalidPropertyValueError struct {
	ID     string
	Name   string
	Value  any
	Reason string
}

func (e *InvalidPropertyValueError) Error() string {
	return fmt.Sprintf("invalid value for %s.%s (%v): %s", e.ID, e.Name, e.Value, e.Reason)
}

// IncompatibleAnimationError reports an animation that cannot be assigned
// to an object of the given type.
type IncompatibleAnimationError struct {
	ID        string
	Type      schema.ObjectType
	Animation schema.Animation
}

func (e *IncompatibleAnimationError) Error() string {
	return fmt.Sprintf("animation %s is not valid for %s object %s", e.Animation, e.Type, e.ID)
}
