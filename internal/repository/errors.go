package repository

import "errors"

var (
	// ErrVersionConflict is returned when an optimistic update lost the race
	// against a concurrent writer. Callers may retry with a fresh read.
	ErrVersionConflict = errors.New("repository: record was modified concurrently")

	// ErrDuplicateBill is returned when a non-cancelled bill already exists
	// for the same room and billing period.
	ErrDuplicateBill = errors.New("repository: bill already exists for room and period")
)
