package storage

import "errors"

var (
	// ErrNotFound indicates no object is stored under the requested key.
	ErrNotFound = errors.New("stored object not found")
	// ErrEmptyKey indicates an empty object key was provided.
	ErrEmptyKey = errors.New("object key must not be empty")
	// ErrInvalidKey indicates the object key contains a path traversal segment.
	ErrInvalidKey = errors.New("object key contains invalid path segment")
)
