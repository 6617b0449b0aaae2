package entity

import "errors"

var (
	// ErrInvalidArgument marks bad input to a generator, filter or export
	// call: malformed ranges, non-positive counts, unknown parameter names.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a lookup for an identifier absent from the current
	// population or store.
	ErrNotFound = errors.New("not found")
)
