package circuit

import "errors"

// Build errors. Every one of them is fatal to the current build: the caller
// fixes the circuit description and rebuilds from configuration.
var (
	// ErrResourceExhausted signals that a column allocation exceeded the
	// caller-configured maximum for its kind.
	ErrResourceExhausted = errors.New("column budget exhausted")

	// ErrInvalidExpression signals a gate or copy constraint referencing a
	// column that was never allocated or lacks a required capability.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrPhaseViolation signals an operation performed outside the phase it
	// is legal in (configuration ops during synthesis, synthesis ops after
	// finalization).
	ErrPhaseViolation = errors.New("operation illegal in current phase")

	// ErrDoubleAssignment signals a cell written twice with differing
	// values. Rewriting the identical value is a no-op.
	ErrDoubleAssignment = errors.New("cell assigned twice with different values")

	// ErrUnsatisfiableInput signals a chip instruction given an input value
	// it cannot express under its own gates.
	ErrUnsatisfiableInput = errors.New("input not representable by chip")

	// ErrCrossPhaseReference signals a copy constraint referencing a cell of
	// a region that is neither the current one nor sealed.
	ErrCrossPhaseReference = errors.New("constraint references a cell of an unsealed region")

	// ErrNestedRegion signals a reentrant AssignRegion call.
	ErrNestedRegion = errors.New("nested region")

	// ErrRowOverflow signals region placement exceeding the configured row
	// budget.
	ErrRowOverflow = errors.New("row budget exceeded")

	// ErrUnassignedCell signals a gate active on a cell that was never
	// written, or an instance value that was never supplied.
	ErrUnassignedCell = errors.New("unassigned cell referenced")
)
