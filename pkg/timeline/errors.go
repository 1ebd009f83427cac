package timeline

import (
	"errors"
	"fmt"

	"github.com/raidtimeline/timeline-go/internal/parser"
)

// Sentinels classifying Error values. Use errors.Is on an Error to test them.
var (
	ErrInvalidFormat       = parser.ErrInvalidFormat
	ErrExtraText           = parser.ErrExtraText
	ErrInvalidNetRegexType = errors.New("invalid NetRegex type")
	ErrInvalidNetRegexArgs = errors.New("invalid NetRegex arguments")
	ErrInvalidSyncRegex    = errors.New("invalid sync regex")
	ErrDuplicateLabel      = errors.New("duplicate label")
	ErrUnknownLabel        = errors.New("unknown label")
	ErrTriggerNoMatch      = errors.New("trigger matched no event")
)

// InternalError reports a bug in the parser: an internal assumption was
// violated. It is returned by Parse instead of a Timeline and is never
// mixed with the data errors of Timeline.Errors.
type InternalError struct {
	// LineNumber is the line being processed, or 0 during the final passes.
	LineNumber int
	Message    string
	Cause      error
}

func (e *InternalError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("timeline: internal error at line %d: %s", e.LineNumber, e.Message)
	}
	return "timeline: internal error: " + e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *InternalError) Unwrap() error {
	return e.Cause
}
