package navigator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks requests rejected before any work is done.
var ErrInvalidInput = errors.New("invalid input")

// ErrPersist marks failures of the store write that follows a computed analysis.
var ErrPersist = errors.New("persist analysis")

// PersistError is returned alongside a valid result when only the write failed.
type PersistError struct {
	UserID string
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist analysis for %s: %v", e.UserID, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrPersist, e.Err}
}
