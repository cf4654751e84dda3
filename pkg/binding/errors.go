package binding

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey reports a key or row column produced twice in one pass.
	ErrDuplicateKey = errors.New("binding: duplicate key")
	// ErrContainerNotFound reports a grouped leaf with no group container.
	ErrContainerNotFound = errors.New("binding: group container not found")
	// ErrInvalidScope reports a nil or non-element scope root.
	ErrInvalidScope = errors.New("binding: invalid scope")
	// ErrInvalidArgument reports a blank required argument.
	ErrInvalidArgument = errors.New("binding: invalid argument")
	// ErrRowNotFound reports an element with no enclosing row.
	ErrRowNotFound = errors.New("binding: row not found")
)

// Error describes a failed binding operation.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes the underlying sentinel.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
