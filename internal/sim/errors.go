package sim

import "errors"

var (
	// ErrBrokenReference marks a program whose referenced particle was
	// removed. The program fails permanently; its particle steps as
	// unbound until a new equation is set.
	ErrBrokenReference = errors.New("sim: referenced object was removed")

	// ErrBadTimestep indicates a non-positive dt.
	ErrBadTimestep = errors.New("sim: dt must be positive")

	// ErrBadConstraint indicates a constraint that fails validation:
	// a self or out-of-range target, a non-positive rest length, or a
	// degenerate bounding box.
	ErrBadConstraint = errors.New("sim: invalid constraint")
)
