package circuit

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/consensys/gnark/constraint"
)

// VirtualCells is the query and arithmetic surface handed to a gate builder
// callback. Queries address cells relative to the row the gate is evaluated
// on; the first error encountered is remembered and fails the CreateGate
// call.
type VirtualCells struct {
	cs        *ConstraintSystem
	selectors []Selector
	err       error
}

func (v *VirtualCells) setErr(err error) {
	if v.err == nil {
		v.err = err
	}
}

func (v *VirtualCells) query(col Column, kind ColumnKind, rot expr.Rotation) expr.Expression {
	if err := v.cs.CheckColumn(col); err != nil {
		v.setErr(err)
		return nil
	}
	if col.Kind != kind {
		v.setErr(fmt.Errorf("%w: column %d is %s, queried as %s", ErrInvalidExpression, col.Index, col.Kind, kind))
		return nil
	}
	return expr.NewSingle(expr.Query{Column: col.Index, Rotation: rot}, v.cs.f.One())
}

// QueryAdvice reads an advice column at the given rotation.
func (v *VirtualCells) QueryAdvice(col Column, rot expr.Rotation) expr.Expression {
	return v.query(col, Advice, rot)
}

// QueryFixed reads a fixed column at the given rotation.
func (v *VirtualCells) QueryFixed(col Column, rot expr.Rotation) expr.Expression {
	return v.query(col, Fixed, rot)
}

// QueryInstance reads an instance column at the given rotation.
func (v *VirtualCells) QueryInstance(col Column, rot expr.Rotation) expr.Expression {
	return v.query(col, Instance, rot)
}

// QuerySelector reads a selector at the current row and records it as an
// activity switch for the gate under construction.
func (v *VirtualCells) QuerySelector(s Selector) expr.Expression {
	if s.Index < 0 || s.Index >= len(v.cs.selectors) || v.cs.selectors[s.Index] != s {
		v.setErr(fmt.Errorf("%w: selector %d not allocated", ErrInvalidExpression, s.Index))
		return nil
	}
	for _, known := range v.selectors {
		if known == s {
			return v.query(s.Col, Fixed, expr.Cur)
		}
	}
	v.selectors = append(v.selectors, s)
	return v.query(s.Col, Fixed, expr.Cur)
}

// Constant lifts a value into a constant polynomial.
func (v *VirtualCells) Constant(c interface{}) expr.Expression {
	return expr.NewConstant(v.cs.f.FromInterface(c))
}

func (v *VirtualCells) Add(a, b expr.Expression) expr.Expression {
	return expr.Add(v.cs.f, a, b)
}

func (v *VirtualCells) Sub(a, b expr.Expression) expr.Expression {
	return expr.Sub(v.cs.f, a, b)
}

func (v *VirtualCells) Mul(a, b expr.Expression) expr.Expression {
	return expr.Mul(v.cs.f, a, b)
}

func (v *VirtualCells) Neg(a expr.Expression) expr.Expression {
	return expr.Neg(v.cs.f, a)
}

func (v *VirtualCells) Scale(a expr.Expression, c interface{}) expr.Expression {
	var e constraint.Element
	if x, ok := c.(constraint.Element); ok {
		e = x
	} else {
		e = v.cs.f.FromInterface(c)
	}
	return expr.Scale(v.cs.f, a, e)
}
