package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrSlugTaken = errors.New("slug already taken")
	ErrConflict  = errors.New("conflicting record exists")
)

// WriteError reports a failed write to the backing store. Callers may retry
// with backoff; ErrSlugTaken is the one cause that will not go away on retry.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func NewWriteError(op string, err error) error {
	return &WriteError{Op: op, Err: err}
}
