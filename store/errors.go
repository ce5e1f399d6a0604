package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a key doesn't exist.
	ErrNotFound = errors.New("store: key not found")

	// ErrEmptyKey is returned when an operation is called with an empty key.
	ErrEmptyKey = errors.New("store: empty key")
)

// FileError reports a failure reading or writing the backing file.
type FileError struct {
	Op   string // "read", "decode", "encode", "write"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FileError) Unwrap() error {
	return e.Err
}
