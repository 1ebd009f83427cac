package netregex

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrUnknownType is returned for a type name or value that is not registered.
	ErrUnknownType = errors.New("invalid netregex type")

	// ErrInvalidArgs is matched by every parameter validation failure.
	ErrInvalidArgs = errors.New("invalid netregex arguments")
)

// ArgError describes a parameter object that does not fit its schema.
type ArgError struct {
	Type    string // Type name, e.g. "StartsUsing"
	Key     string // Offending parameter key (may be empty)
	Message string
	Cause   error // Underlying error (e.g. decode or regex compile error)
}

func (e *ArgError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s: %q: %s", ErrInvalidArgs, e.Type, e.Key, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidArgs, e.Type, e.Message)
}

// Is reports whether target is ErrInvalidArgs.
func (e *ArgError) Is(target error) bool {
	return target == ErrInvalidArgs
}

// Unwrap returns the underlying cause of the error.
func (e *ArgError) Unwrap() error {
	return e.Cause
}
