package fluidpath

import (
	"errors"
	"fmt"
)

// Common path errors
var (
	ErrNotExist          = errors.New("path does not exist")
	ErrExist             = errors.New("path already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIsDir             = errors.New("is a directory")
	ErrNotDir            = errors.New("not a directory")
	ErrNotEmpty          = errors.New("directory not empty")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
)

// PathError records an error and the operation and location that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError wraps err with the operation and location that produced it.
func NewPathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// IsNotExist reports whether an error indicates that a path does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsExist reports whether an error indicates that a path already exists
func IsExist(err error) bool {
	return errors.Is(err, ErrExist)
}

// IsInvalidArgument reports whether an error was caused by a caller-level
// precondition, such as a missing copy source or a non-ancestor passed to
// RelativeTo.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
