// Package apperr defines sentinel errors shared across service boundaries.
package apperr

import "errors"

var (
	// ErrNotFound indicates a note or graph node that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrClosed indicates an operation against an engine that has been shut down.
	ErrClosed = errors.New("engine closed")
)
