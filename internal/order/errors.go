package order

import (
	"errors"
	"fmt"
)

// Sentinel for errors.Is checks against any structural parse failure.
var ErrStructural = errors.New("structural error")

// StructuralError reports a required field that is missing or malformed when
// rehydrating an order from the wire. These propagate unchanged to the caller;
// required identifiers are never defaulted silently.
type StructuralError struct {
	Field  string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

func newStructuralError(field, reason string) *StructuralError {
	return &StructuralError{Field: field, Reason: reason}
}
