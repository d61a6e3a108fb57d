package world

import (
	"errors"
	"fmt"
)

// Domain errors shared across the engine.
var (
	// ErrNotFound indicates an object index that does not exist.
	ErrNotFound = errors.New("world: object not found")

	// ErrUnknownParameter indicates a Set/Get on a parameter name the
	// engine does not define.
	ErrUnknownParameter = errors.New("world: unknown parameter")

	// ErrStoreFull indicates the object limit was reached.
	ErrStoreFull = errors.New("world: maximum object limit reached")
)

// NotFoundError reports which index a host-bridge call referenced.
type NotFoundError struct {
	Index int
	Count int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object index %d out of range (count %d)", e.Index, e.Count)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
