package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlacement is returned when a move is rejected. The game
	// state is unchanged and the player may try elsewhere.
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrNothingToUndo is returned by undo with an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrDuplicateSource is returned when a second source is set on a grid.
	ErrDuplicateSource = errors.New("grid already has a source")

	// ErrTerminationLocked is returned when a source or sink would be overwritten.
	ErrTerminationLocked = errors.New("termination cells cannot be overwritten")
)

// ValidationError describes the first rule a map violates.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
