package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrNotLoaded is returned when the store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Op identifies the kind of storage operation that failed
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpDelete Op = "delete"
)

// Error wraps a failed storage operation with the path it touched
type Error struct {
	Op   Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *Error for the given operation and path. ErrNotFound
// is returned unwrapped so callers can compare it directly.
func Wrap(op Op, path Path, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Path: path.String(), Err: err}
}

// IsNotFound reports whether err means the document does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRead reports whether err is a failed read
func IsRead(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Op == OpRead
}

// IsWrite reports whether err is a failed write or delete
func IsWrite(err error) bool {
	var se *Error
	return errors.As(err, &se) && (se.Op == OpWrite || se.Op == OpDelete)
}
