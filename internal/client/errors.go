package client

import (
	"errors"
	"fmt"
)

// Error describes a failed call. StatusCode is zero when the service could not
// be reached at all.
type Error struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s %s: unreachable: %v", e.Op, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unreachable reports whether the request never got a response.
func (e *Error) Unreachable() bool {
	return e.StatusCode == 0
}

// IsUnreachable reports whether err is a connection failure rather than an
// application response.
func IsUnreachable(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Unreachable()
}
