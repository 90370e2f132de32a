package circuit

// ColumnKind distinguishes the three roles a table column can play.
type ColumnKind uint8

const (
	// Advice columns hold private witness values supplied by the prover.
	Advice ColumnKind = iota
	// Fixed columns hold constants and selectors baked into the circuit.
	Fixed
	// Instance columns hold public values known to the verifier.
	Instance
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Fixed:
		return "fixed"
	case Instance:
		return "instance"
	}
	return "unknown"
}

// Column is a stable handle to one table column. Handles are created by the
// ConstraintSystem during configuration and stay valid for the lifetime of
// the build. Index is the position in the global column list, across kinds.
type Column struct {
	Index int
	Kind  ColumnKind
}

// Selector switches a gate on and off per row. It occupies a dedicated
// fixed column holding zero or one; a gate querying the selector is active
// exactly on the rows where it was enabled.
type Selector struct {
	Col   Column
	Index int
}
