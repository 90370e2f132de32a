package circuit

// Chip ties a configuration (the columns, selectors and gates a reusable
// primitive owns) to the instruction methods it exposes to circuits. The
// config is produced once during configuration and is read-only afterwards;
// every instruction method opens exactly one region, performs its
// assignments and copy constraints, and seals the region before returning.
type Chip[C any] interface {
	Config() C
}
