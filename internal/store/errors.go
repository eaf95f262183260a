package store

import "errors"

var (
	// ErrValidation is returned when task text is empty after trimming.
	ErrValidation = errors.New("task text is empty")

	// ErrNotFound is returned when an operation names an id that is not in the collection.
	ErrNotFound = errors.New("task not found")

	// ErrPersistence is returned when the collection could not be written to the backend.
	// The in-memory collection has been rolled back when this is returned.
	ErrPersistence = errors.New("could not save tasks")
)
