package icekit

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	ErrNotExist        = errors.New("file does not exist")
	ErrPermission      = errors.New("permission denied")
	ErrIsDir           = errors.New("is a directory")
	ErrNotAllowed      = errors.New("operation not allowed")
	ErrNotSupported    = errors.New("operation not supported")
	ErrInvalidLocation = errors.New("invalid location")
)

// PathError records an error and the operation and file path that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// NewPathError creates a new PathError
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// IsNotExist reports whether an error indicates that a file does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// ============================================================================
// Expected errors
// ============================================================================
// Expected errors describe conditions the user can act on: bad input or a
// table that failed verification. Anything else reaching the command line
// is treated as an unexpected failure.

// ValidationError reports a content-validation failure: data files that the
// snapshot references but storage does not have.
type ValidationError struct {
	Missing int
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("table is corrupt - %d file(s) missing", e.Missing)
}

// UserInputError reports invalid user input such as a malformed or unknown id.
type UserInputError struct {
	Msg string
}

// Error implements the error interface
func (e *UserInputError) Error() string {
	return e.Msg
}

// UserInputf formats a UserInputError
func UserInputf(format string, args ...any) error {
	return &UserInputError{Msg: fmt.Sprintf(format, args...)}
}

// IsExpected reports whether err is a ValidationError or UserInputError,
// possibly wrapped.
func IsExpected(err error) bool {
	var ve *ValidationError
	var ue *UserInputError
	return errors.As(err, &ve) || errors.As(err, &ue)
}
