package catalog

import "errors"

var (
	// ErrNotFound is returned when an item, album or source id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrImmutable is returned when a mutation targets a seed item.
	ErrImmutable = errors.New("seed items are immutable")
	// ErrDuplicate is returned when an id is already taken.
	ErrDuplicate = errors.New("duplicate id")
	// ErrInvalid is returned for malformed input.
	ErrInvalid = errors.New("invalid input")
)
