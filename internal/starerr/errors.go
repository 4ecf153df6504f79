// Package starerr implements the error taxonomy of §7: InvalidSong,
// Inconsistent, Overflow, Internal. Grounded on github.com/pkg/errors for
// cause-wrapping, present in the teacher's own dependency closure, and on
// internal/score's pervasive "if nil != err { return ... }" idiom.
package starerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the four error categories from §7.
type Kind int

const (
	InvalidSong Kind = iota
	Inconsistent
	Overflow
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidSong:
		return "InvalidSong"
	case Inconsistent:
		return "Inconsistent"
	case Overflow:
		return "Overflow"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind, per §7's "result-or-error
// return" policy.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

// Unwrap lets errors.Is/errors.As (including the stdlib ones) see through
// to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a Kind-tagged Error wrapping msg as the cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Wrap tags an existing error with a Kind, preserving its cause chain via
// errors.Wrap so errors.Cause still recovers the original error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, cause: errors.Wrap(err, msg)}
}

// Warning is a non-fatal Inconsistent finding collected during
// construction rather than aborting it, per §7's recoverable-condition
// policy.
type Warning struct {
	Kind    Kind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
