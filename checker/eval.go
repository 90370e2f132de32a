// Package checker evaluates a finished build without a proving backend:
// every gate must vanish on every row it is active on, and every copy
// constraint must hold in the witness table.
package checker

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/HawkeWei/halo2-examples/layout"
	"github.com/consensys/gnark/constraint"
)

// CheckCircuit reports whether the build satisfies all of its constraints.
func CheckCircuit(res *layout.Result) bool {
	return Verify(res) == nil
}

// Verify checks every gate and copy constraint against the witness table
// and returns the first violation found.
//
// A gate is checked on the rows where all of its selectors are enabled (on
// every used row if it has none). Unassigned fixed cells read as zero;
// an unassigned advice or instance cell referenced by an active gate is an
// error.
func Verify(res *layout.Result) error {
	f := res.CS.Field()
	columns := res.CS.Columns()

	at := func(row int) func(q expr.Query) (constraint.Element, error) {
		return func(q expr.Query) (constraint.Element, error) {
			r := row + int(q.Rotation)
			v, ok := res.Witness.At(q.Column, r)
			if !ok {
				if q.Column >= 0 && q.Column < len(columns) && columns[q.Column].Kind == circuit.Fixed &&
					r >= 0 && r < res.Witness.Rows() {
					return constraint.Element{}, nil
				}
				return constraint.Element{}, fmt.Errorf("%w: (column %d, row %d)", circuit.ErrUnassignedCell, q.Column, r)
			}
			return v, nil
		}
	}

	for _, gate := range res.CS.Gates() {
		for row := 0; row < res.Rows; row++ {
			if !gateActive(res, gate, row) {
				continue
			}
			v, err := gate.Poly.Eval(f, at(row))
			if err != nil {
				return fmt.Errorf("gate %q at row %d: %w", gate.Name, row, err)
			}
			if !v.IsZero() {
				return fmt.Errorf("gate %q not satisfied at row %d: %s != 0", gate.Name, row, f.String(v))
			}
		}
	}

	for _, cc := range res.Copies {
		a, okA := res.Witness.At(cc.A.Column.Index, cc.A.Row)
		if !okA {
			return fmt.Errorf("copy constraint: %w: (%s %d, row %d)", circuit.ErrUnassignedCell,
				cc.A.Column.Kind, cc.A.Column.Index, cc.A.Row)
		}
		b, okB := res.Witness.At(cc.B.Column.Index, cc.B.Row)
		if !okB {
			return fmt.Errorf("copy constraint: %w: (%s %d, row %d)", circuit.ErrUnassignedCell,
				cc.B.Column.Kind, cc.B.Column.Index, cc.B.Row)
		}
		if a != b {
			return fmt.Errorf("copy constraint not satisfied: (%s %d, row %d) = %s, (%s %d, row %d) = %s",
				cc.A.Column.Kind, cc.A.Column.Index, cc.A.Row, f.String(a),
				cc.B.Column.Kind, cc.B.Column.Index, cc.B.Row, f.String(b))
		}
	}

	return nil
}

// gateActive reports whether every selector the gate queries is enabled on
// the given row.
func gateActive(res *layout.Result, gate *circuit.Gate, row int) bool {
	f := res.CS.Field()
	for _, s := range gate.Selectors {
		v, ok := res.Witness.At(s.Col.Index, row)
		if !ok || !f.IsOne(v) {
			return false
		}
	}
	return true
}
