package onecell

import (
	"errors"
	"fmt"
)

// ErrUninitialized indicates a read of a registry whose slot has never
// been populated. Use errors.Is against this sentinel.
var ErrUninitialized = errors.New("singleton not initialized")

// UninitializedAccessError reports an access to a registry before any
// successful GetOrInitialize. It signals a usage-order bug in the
// caller, not a transient condition: the registry never retries, the
// error is always surfaced.
type UninitializedAccessError struct {
	// Op is the operation that failed (e.g., "get").
	Op string
}

// Error implements the error interface.
func (e *UninitializedAccessError) Error() string {
	return fmt.Sprintf("%s: singleton not initialized; call GetOrInitialize first", e.Op)
}

// Unwrap returns ErrUninitialized for errors.Is support.
func (e *UninitializedAccessError) Unwrap() error {
	return ErrUninitialized
}
