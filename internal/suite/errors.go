package suite

import "fmt"

// UserInputError indicates malformed or insufficient configuration, such as
// no usable data source or an unknown scoring method name. Nothing has been
// reserved on disk when one of these is returned.
type UserInputError struct {
	Msg string
}

func (e *UserInputError) Error() string {
	return e.Msg
}

// UserValueError indicates well-formed data that is inconsistent with the
// suite, such as a candidate count that does not match the case count.
// Surfaced before any scoring work or directory creation.
type UserValueError struct {
	Msg string
}

func (e *UserValueError) Error() string {
	return e.Msg
}

// InternalError indicates that the scoring backend failed mid-run. It always
// wraps the original cause so callers can distinguish backend failures from
// their own input errors.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
