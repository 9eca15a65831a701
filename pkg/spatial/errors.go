package spatial

import "errors"

var (
	// ErrInvalidDimensions is returned by New when the world width or the
	// cell size is not strictly positive (or not finite).
	ErrInvalidDimensions = errors.New("spatial: map width and cell size must be positive")

	// ErrUninitialized is returned when a mutating call reaches a zero-value Grid.
	ErrUninitialized = errors.New("spatial: grid is not initialized, use spatial.New")

	// ErrUnknownEnemy is returned when an id was never inserted.
	ErrUnknownEnemy = errors.New("spatial: unknown enemy id")

	// ErrDuplicateEnemy is returned when Insert sees an id twice.
	ErrDuplicateEnemy = errors.New("spatial: enemy already inserted")

	// ErrStaleCell is returned by Relocate when the old position does not map
	// to the cell the enemy is registered in. No cell is modified.
	ErrStaleCell = errors.New("spatial: old position does not match the registered cell")

	// ErrInconsistent is returned by Validate when the index drifted.
	ErrInconsistent = errors.New("spatial: index is inconsistent")
)
