// Package common defines the sentinel errors shared across the profiledb
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrValidation marks a malformed or missing profile URL (or another bad
	// input) detected before any storage mutation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned by read paths when no record matches the key.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the storage layer could not serialize
	// concurrent ingestions for the same profile key.
	ErrConflict = errors.New("conflict")

	// ErrStorageUnavailable marks a transient backend failure. It is
	// propagated to the caller, never swallowed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
