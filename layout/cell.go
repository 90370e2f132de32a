package layout

import (
	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/consensys/gnark/constraint"
)

// Cell identifies one table cell by column and absolute row.
type Cell struct {
	Column circuit.Column
	Row    int
}

// AssignedCell is a handle to a cell together with the witness value it
// holds. Inside a region callback the handle carries a region-relative row;
// the layouter rewrites it to the absolute row when the region is sealed.
// Chips pass these handles between instruction calls to build copy
// constraints across regions.
type AssignedCell struct {
	cell   Cell
	value  constraint.Element
	region int
}

func (c *AssignedCell) Cell() Cell {
	return c.cell
}

func (c *AssignedCell) Value() constraint.Element {
	return c.value
}

// CopyConstraint asserts that two cells hold equal values. Committed
// constraints reference absolute rows.
type CopyConstraint struct {
	A, B Cell
}

// instanceRegion tags pseudo cells standing for public-input values; they
// are considered sealed from the start of synthesis.
const instanceRegion = -1
