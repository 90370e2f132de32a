// Package layout implements the synthesis half of a build: it places chip
// regions onto physical rows, collects cell assignments and copy
// constraints, and produces the final witness table.
package layout

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field"
	"github.com/consensys/gnark/constraint"
)

// RegionInfo describes one committed region: the absolute rows it occupies
// and the columns it touched.
type RegionInfo struct {
	Name    string
	Start   int
	Rows    int
	Columns []int
}

// Result is the terminal artifact of synthesis, consumed by the proving
// backend (and by the checker in tests): the frozen constraint system, the
// filled witness table, the committed copy constraints and the public-input
// vectors.
type Result struct {
	CS        *circuit.ConstraintSystem
	Witness   *Witness
	Copies    []CopyConstraint
	Regions   []RegionInfo
	Instances [][]constraint.Element
	Rows      int
}

// Layouter assigns chip regions to physical rows. Rows grow monotonically,
// first fit per column set: a region starts at the first row free in every
// column it touches, and no two regions share a row in a column both use.
// Placement order is the AssignRegion call order, so deterministic call
// sequences produce deterministic tables.
type Layouter struct {
	cs *circuit.ConstraintSystem
	f  field.Field

	witness     *Witness
	instances   [][]constraint.Element
	instanceIdx map[int]int

	nextFree  []int
	inRegion  bool
	finalized bool
	nbRegions int
	committed map[int]bool

	regions []RegionInfo
	copies  []CopyConstraint
	rows    int
}

// NewLayouter closes the configuration phase of cs and prepares synthesis.
// The i-th public-input vector binds to the i-th allocated instance column;
// missing vectors read as empty.
func NewLayouter(cs *circuit.ConstraintSystem, instances [][]*big.Int) (*Layouter, error) {
	if err := cs.BeginSynthesis(); err != nil {
		return nil, err
	}
	limits := cs.Limits()
	if limits.MaxRows <= 0 {
		return nil, fmt.Errorf("%w: no rows configured", circuit.ErrRowOverflow)
	}
	instCols := cs.InstanceColumns()
	if len(instances) > len(instCols) {
		return nil, fmt.Errorf("%w: %d instance vectors for %d instance columns",
			circuit.ErrInvalidExpression, len(instances), len(instCols))
	}
	f := cs.Field()
	l := &Layouter{
		cs:          cs,
		f:           f,
		witness:     newWitness(f, cs.Columns(), limits.MaxRows),
		instances:   make([][]constraint.Element, len(instCols)),
		instanceIdx: make(map[int]int, len(instCols)),
		nextFree:    make([]int, len(cs.Columns())),
		committed:   make(map[int]bool),
	}
	for i, col := range instCols {
		l.instanceIdx[col.Index] = i
	}
	for i, vec := range instances {
		if len(vec) > limits.MaxRows {
			return nil, fmt.Errorf("%w: %d public inputs for %d rows", circuit.ErrRowOverflow, len(vec), limits.MaxRows)
		}
		l.instances[i] = make([]constraint.Element, len(vec))
		for row, v := range vec {
			e := f.FromInterface(v)
			l.instances[i][row] = e
			if err := l.witness.set(instCols[i].Index, row, e); err != nil {
				return nil, err
			}
		}
		if len(vec) > l.rows {
			l.rows = len(vec)
		}
	}
	return l, nil
}

// Field returns the arithmetic engine of this build.
func (l *Layouter) Field() field.Field {
	return l.f
}

func (l *Layouter) checkColumn(col circuit.Column) error {
	return l.cs.CheckColumn(col)
}

func (l *Layouter) regionSealed(index int) bool {
	return index == instanceRegion || l.committed[index]
}

func (l *Layouter) instanceValue(col circuit.Column, row int) (constraint.Element, error) {
	if err := l.checkColumn(col); err != nil {
		return constraint.Element{}, err
	}
	if col.Kind != circuit.Instance {
		return constraint.Element{}, fmt.Errorf("%w: column %d is %s, not instance",
			circuit.ErrInvalidExpression, col.Index, col.Kind)
	}
	ordinal := l.instanceIdx[col.Index]
	if ordinal >= len(l.instances) || row < 0 || row >= len(l.instances[ordinal]) {
		return constraint.Element{}, fmt.Errorf("%w: public input %d of instance column %d not supplied",
			circuit.ErrUnassignedCell, row, col.Index)
	}
	return l.instances[ordinal][row], nil
}

// AssignRegion opens a region, runs the callback against it, and commits
// the buffered assignments to the next free rows. Callbacks must not call
// AssignRegion again on the same layouter.
func (l *Layouter) AssignRegion(name string, fn func(r *Region) error) error {
	if l.finalized {
		return fmt.Errorf("%w: layouter finalized", circuit.ErrPhaseViolation)
	}
	if l.inRegion {
		return fmt.Errorf("%w: region %q opened inside another region", circuit.ErrNestedRegion, name)
	}
	r := newRegion(l, l.nbRegions, name)
	l.nbRegions++
	l.inRegion = true
	err := fn(r)
	l.inRegion = false
	r.sealed = true
	if err != nil {
		return err
	}
	return l.commit(r)
}

func (l *Layouter) commit(r *Region) error {
	width := 0
	if len(r.order) > 0 {
		width = r.maxRel + 1
	}

	start := 0
	for col := range r.columns {
		if l.nextFree[col] > start {
			start = l.nextFree[col]
		}
	}
	if start+width > l.witness.Rows() {
		return fmt.Errorf("%w: region %q needs rows [%d, %d), budget is %d",
			circuit.ErrRowOverflow, r.name, start, start+width, l.witness.Rows())
	}

	for _, key := range r.order {
		cell := r.writes[key]
		cell.cell.Row += start
		if err := l.witness.set(key.col, cell.cell.Row, cell.value); err != nil {
			return err
		}
	}
	for _, p := range r.copies {
		l.copies = append(l.copies, CopyConstraint{A: p.a.cell, B: p.b.cell})
	}

	columns := make([]int, 0, len(r.columns))
	for col := range r.columns {
		columns = append(columns, col)
		l.nextFree[col] = start + width
	}
	sort.Ints(columns)
	if start+width > l.rows {
		l.rows = start + width
	}
	l.regions = append(l.regions, RegionInfo{Name: r.name, Start: start, Rows: width, Columns: columns})
	l.committed[r.index] = true
	return nil
}

// ConstrainInstance copy-constrains an assigned cell to a public-input
// cell, exposing the cell's value to the verifier.
func (l *Layouter) ConstrainInstance(c *AssignedCell, col circuit.Column, row int) error {
	if l.finalized {
		return fmt.Errorf("%w: layouter finalized", circuit.ErrPhaseViolation)
	}
	if !l.regionSealed(c.region) {
		return fmt.Errorf("%w: cell (%s %d) from region %d", circuit.ErrCrossPhaseReference,
			c.cell.Column.Kind, c.cell.Column.Index, c.region)
	}
	if !l.cs.EqualityEnabled(c.cell.Column) {
		return fmt.Errorf("%w: column %d/%s not enabled for equality", circuit.ErrInvalidExpression,
			c.cell.Column.Index, c.cell.Column.Kind)
	}
	if !l.cs.EqualityEnabled(col) {
		return fmt.Errorf("%w: column %d/%s not enabled for equality", circuit.ErrInvalidExpression,
			col.Index, col.Kind)
	}
	if _, err := l.instanceValue(col, row); err != nil {
		return err
	}
	l.copies = append(l.copies, CopyConstraint{A: c.cell, B: Cell{Column: col, Row: row}})
	return nil
}

// Finalize irreversibly seals the build and returns its artifacts. Any
// further AssignRegion or ConstrainInstance call fails.
func (l *Layouter) Finalize() (*Result, error) {
	if l.inRegion {
		return nil, fmt.Errorf("%w: finalize inside an open region", circuit.ErrPhaseViolation)
	}
	if l.finalized {
		return nil, fmt.Errorf("%w: layouter finalized", circuit.ErrPhaseViolation)
	}
	if err := l.cs.EndSynthesis(); err != nil {
		return nil, err
	}
	l.finalized = true
	return &Result{
		CS:        l.cs,
		Witness:   l.witness,
		Copies:    l.copies,
		Regions:   l.regions,
		Instances: l.instances,
		Rows:      l.rows,
	}, nil
}
