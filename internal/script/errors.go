package script

import "fmt"

// UnsupportedPropertyCombinationError reports a snapshot the compiler
// cannot translate even though every value passed schema validation. It
// indicates a validation gap upstream, not bad user input.
type UnsupportedPropertyCombinationError struct {
	ObjectID string
	Detail   string
}

func (e *UnsupportedPropertyCombinationError) Error() string {
	return fmt.Sprintf("cannot compile object %s: %s", e.ObjectID, e.Detail)
}
