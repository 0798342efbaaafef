package script

import "errors"

// Errors for script state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("script: lua state is closed")

	// ErrNotFound is returned when a called global is missing.
	ErrNotFound = errors.New("script: global not found")
)
