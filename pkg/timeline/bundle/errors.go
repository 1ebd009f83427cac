package bundle

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned when a bundle format cannot be determined.
var ErrUnknownFormat = errors.New("unknown bundle format")

// ValidationError represents a bundle-level validation error, such as an
// unsupported version or a schema violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// EntryError represents an error in a single trigger or style entry.
type EntryError struct {
	Section string // "triggers" or "styles"
	Index   int    // 0-based index within Section
	ID      string // trigger ID, empty for styles
	Field   string
	Message string
	Cause   error // underlying error, e.g. a regex compile error
}

func (e *EntryError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q: %s: %s", e.Section, e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s[%d]: %s: %s", e.Section, e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *EntryError) Unwrap() error {
	return e.Cause
}
