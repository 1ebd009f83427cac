// Package invariant reports violated internal assumptions.
//
// A violation is a bug in this module, never a problem with user input. It is
// raised as a panic carrying *Violation. Public entry points recover it and
// return a distinct fatal error instead of a line-level diagnostic.
package invariant

import "fmt"

// Violation describes a failed internal assumption.
type Violation struct {
	Message string
}

func (v *Violation) Error() string {
	return "internal invariant violated: " + v.Message
}

// Check panics with a *Violation when cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(&Violation{Message: fmt.Sprintf(format, args...)})
	}
}

// NoError panics with a *Violation when err is non-nil.
func NoError(err error, context string) {
	if err != nil {
		panic(&Violation{Message: fmt.Sprintf("%s: %v", context, err)})
	}
}
