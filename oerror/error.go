package oerror

import "fmt"

// Error is the error type returned by kinematic packages for contract violations that the caller is
// expected to handle, such as structural changes made while a contact monitor is locked.
type Error struct {
	Err string
}

// New creates an Error from the format string and arguments passed.
func New(format string, args ...any) *Error {
	if len(args) == 0 {
		return &Error{Err: format}
	}
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
