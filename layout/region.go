package layout

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field"
	"github.com/consensys/gnark/constraint"
)

type writeKey struct {
	col int
	row int
}

type copyPair struct {
	a, b *AssignedCell
}

// Region is the assignment sink handed to an AssignRegion callback. All
// rows are relative to the region; the layouter maps them to absolute rows
// when the callback returns. The handle is invalid once the region seals.
type Region struct {
	l     *Layouter
	index int
	name  string

	writes  map[writeKey]*AssignedCell
	order   []writeKey
	copies  []copyPair
	maxRel  int
	columns map[int]struct{}
	sealed  bool
}

func newRegion(l *Layouter, index int, name string) *Region {
	return &Region{
		l:       l,
		index:   index,
		name:    name,
		writes:  make(map[writeKey]*AssignedCell),
		columns: make(map[int]struct{}),
	}
}

// Field returns the arithmetic engine of the enclosing build.
func (r *Region) Field() field.Field {
	return r.l.f
}

func (r *Region) toElement(v interface{}) constraint.Element {
	if e, ok := v.(constraint.Element); ok {
		return e
	}
	return r.l.f.FromInterface(v)
}

func (r *Region) assign(col circuit.Column, kind circuit.ColumnKind, row int, value constraint.Element) (*AssignedCell, error) {
	if r.sealed {
		return nil, fmt.Errorf("%w: region %q already sealed", circuit.ErrPhaseViolation, r.name)
	}
	if err := r.l.checkColumn(col); err != nil {
		return nil, err
	}
	if col.Kind != kind {
		return nil, fmt.Errorf("%w: column %d is %s, assigned as %s", circuit.ErrInvalidExpression, col.Index, col.Kind, kind)
	}
	if row < 0 {
		return nil, fmt.Errorf("%w: negative relative row %d", circuit.ErrInvalidExpression, row)
	}
	key := writeKey{col: col.Index, row: row}
	if prev, ok := r.writes[key]; ok {
		if prev.value == value {
			return prev, nil
		}
		return nil, fmt.Errorf("%w: (%s %d, row %d) in region %q", circuit.ErrDoubleAssignment,
			col.Kind, col.Index, row, r.name)
	}
	cell := &AssignedCell{
		cell:   Cell{Column: col, Row: row},
		value:  value,
		region: r.index,
	}
	r.writes[key] = cell
	r.order = append(r.order, key)
	r.columns[col.Index] = struct{}{}
	if row > r.maxRel {
		r.maxRel = row
	}
	return cell, nil
}

// AssignAdvice writes a private witness value at (column, relative row).
// Rewriting the identical value returns the existing cell.
func (r *Region) AssignAdvice(col circuit.Column, row int, value interface{}) (*AssignedCell, error) {
	return r.assign(col, circuit.Advice, row, r.toElement(value))
}

// AssignFixed writes a circuit constant at (column, relative row).
func (r *Region) AssignFixed(col circuit.Column, row int, value interface{}) (*AssignedCell, error) {
	return r.assign(col, circuit.Fixed, row, r.toElement(value))
}

// AssignInstance writes a public value at (column, relative row). The value
// must agree with the public-input vector wherever both cover the same
// cell.
func (r *Region) AssignInstance(col circuit.Column, row int, value interface{}) (*AssignedCell, error) {
	return r.assign(col, circuit.Instance, row, r.toElement(value))
}

// EnableSelector switches the selector on for one region row.
func (r *Region) EnableSelector(s circuit.Selector, row int) error {
	_, err := r.assign(s.Col, circuit.Fixed, row, r.l.f.One())
	return err
}

// AssignAdviceFromConstant writes the constant into the constant-enabled
// fixed column and copy-constrains a fresh advice cell to it.
func (r *Region) AssignAdviceFromConstant(col circuit.Column, row int, value interface{}) (*AssignedCell, error) {
	constCol, ok := r.l.cs.ConstantColumn()
	if !ok {
		return nil, fmt.Errorf("%w: no constant column enabled", circuit.ErrInvalidExpression)
	}
	e := r.toElement(value)
	fixed, err := r.assign(constCol, circuit.Fixed, row, e)
	if err != nil {
		return nil, err
	}
	advice, err := r.assign(col, circuit.Advice, row, e)
	if err != nil {
		return nil, err
	}
	if err := r.ConstrainEqual(advice, fixed); err != nil {
		return nil, err
	}
	return advice, nil
}

// AssignAdviceFromInstance copies a public-input value into an advice cell
// and copy-constrains the two.
func (r *Region) AssignAdviceFromInstance(instCol circuit.Column, instRow int, col circuit.Column, row int) (*AssignedCell, error) {
	value, err := r.l.instanceValue(instCol, instRow)
	if err != nil {
		return nil, err
	}
	advice, err := r.assign(col, circuit.Advice, row, value)
	if err != nil {
		return nil, err
	}
	inst := &AssignedCell{
		cell:   Cell{Column: instCol, Row: instRow},
		value:  value,
		region: instanceRegion,
	}
	if err := r.ConstrainEqual(advice, inst); err != nil {
		return nil, err
	}
	return advice, nil
}

// CopyAdvice re-assigns the value of an existing cell at a new position in
// this region and copy-constrains the two cells.
func (r *Region) CopyAdvice(from *AssignedCell, col circuit.Column, row int) (*AssignedCell, error) {
	cell, err := r.assign(col, circuit.Advice, row, from.value)
	if err != nil {
		return nil, err
	}
	if err := r.ConstrainEqual(cell, from); err != nil {
		return nil, err
	}
	return cell, nil
}

// ConstrainEqual records a copy constraint between two cells. Both columns
// must be equality enabled, and both cells must belong to this region or to
// an already committed one.
func (r *Region) ConstrainEqual(a, b *AssignedCell) error {
	if r.sealed {
		return fmt.Errorf("%w: region %q already sealed", circuit.ErrPhaseViolation, r.name)
	}
	for _, c := range []*AssignedCell{a, b} {
		if !r.l.cs.EqualityEnabled(c.cell.Column) {
			return fmt.Errorf("%w: column %d/%s not enabled for equality", circuit.ErrInvalidExpression,
				c.cell.Column.Index, c.cell.Column.Kind)
		}
		if c.region != r.index && !r.l.regionSealed(c.region) {
			return fmt.Errorf("%w: cell (%s %d) from region %d", circuit.ErrCrossPhaseReference,
				c.cell.Column.Kind, c.cell.Column.Index, c.region)
		}
	}
	r.copies = append(r.copies, copyPair{a: a, b: b})
	return nil
}
