package layout_test

import (
	"math/big"
	"testing"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field/bn254"
	"github.com/HawkeWei/halo2-examples/layout"
	"github.com/stretchr/testify/require"
)

var engine = &bn254.Field{}

func newCS(t *testing.T, limits circuit.Limits, nbAdvice int) (*circuit.ConstraintSystem, []circuit.Column) {
	t.Helper()
	cs := circuit.NewConstraintSystem(engine, limits)
	cols := make([]circuit.Column, nbAdvice)
	for i := range cols {
		var err error
		cols[i], err = cs.AdviceColumn()
		require.NoError(t, err)
		require.NoError(t, cs.EnableEquality(cols[i]))
	}
	return cs, cols
}

func TestRegionPlacementFirstFit(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 16, MaxAdviceColumns: 2, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 2)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	assign := func(name string, col circuit.Column, rows int) {
		require.NoError(t, l.AssignRegion(name, func(r *layout.Region) error {
			for i := 0; i < rows; i++ {
				if _, err := r.AssignAdvice(col, i, i+1); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	assign("r0", cols[0], 3)
	assign("r1", cols[0], 2)
	// Touches only the other column, so it packs back to row 0.
	assign("r2", cols[1], 1)

	res, err := l.Finalize()
	require.NoError(t, err)
	require.Len(t, res.Regions, 3)
	require.Equal(t, 0, res.Regions[0].Start)
	require.Equal(t, 3, res.Regions[1].Start)
	require.Equal(t, 0, res.Regions[2].Start)
	require.Equal(t, 5, res.Rows)

	// No two regions may share a row in a column both touch.
	type slot struct{ col, row int }
	used := make(map[slot]int)
	for i, ri := range res.Regions {
		for _, col := range ri.Columns {
			for row := ri.Start; row < ri.Start+ri.Rows; row++ {
				prev, ok := used[slot{col, row}]
				require.False(t, ok, "regions %d and %d overlap at column %d row %d", prev, i, col, row)
				used[slot{col, row}] = i
			}
		}
	}
}

func TestRegionSpansUpToMaxRelativeRow(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 16, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 1)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	// Only relative row 4 is written; the region still claims rows 0..4.
	require.NoError(t, l.AssignRegion("sparse", func(r *layout.Region) error {
		_, err := r.AssignAdvice(cols[0], 4, 7)
		return err
	}))
	require.NoError(t, l.AssignRegion("next", func(r *layout.Region) error {
		_, err := r.AssignAdvice(cols[0], 0, 8)
		return err
	}))

	res, err := l.Finalize()
	require.NoError(t, err)
	require.Equal(t, 5, res.Regions[0].Rows)
	require.Equal(t, 5, res.Regions[1].Start)
}

func TestDoubleAssignment(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 1)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	// Rewriting the identical value is a no-op returning the same cell.
	require.NoError(t, l.AssignRegion("same", func(r *layout.Region) error {
		c1, err := r.AssignAdvice(cols[0], 0, 5)
		require.NoError(t, err)
		c2, err := r.AssignAdvice(cols[0], 0, 5)
		require.NoError(t, err)
		require.Same(t, c1, c2)
		return nil
	}))

	err = l.AssignRegion("differs", func(r *layout.Region) error {
		if _, err := r.AssignAdvice(cols[0], 0, 5); err != nil {
			return err
		}
		_, err := r.AssignAdvice(cols[0], 0, 6)
		return err
	})
	require.ErrorIs(t, err, circuit.ErrDoubleAssignment)
}

func TestNestedRegion(t *testing.T) {
	cs, _ := newCS(t, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 1)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	err = l.AssignRegion("outer", func(r *layout.Region) error {
		return l.AssignRegion("inner", func(r *layout.Region) error { return nil })
	})
	require.ErrorIs(t, err, circuit.ErrNestedRegion)
}

func TestRowOverflow(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 4, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 1)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	require.NoError(t, l.AssignRegion("fill", func(r *layout.Region) error {
		for i := 0; i < 3; i++ {
			if _, err := r.AssignAdvice(cols[0], i, i); err != nil {
				return err
			}
		}
		return nil
	}))
	err = l.AssignRegion("overflow", func(r *layout.Region) error {
		for i := 0; i < 2; i++ {
			if _, err := r.AssignAdvice(cols[0], i, i); err != nil {
				return err
			}
		}
		return nil
	})
	require.ErrorIs(t, err, circuit.ErrRowOverflow)
}

func TestCopyConstraintNeedsEquality(t *testing.T) {
	cs := circuit.NewConstraintSystem(engine, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 2, MaxFixedColumns: 1, MaxInstanceColumns: 1})
	a, err := cs.AdviceColumn()
	require.NoError(t, err)
	b, err := cs.AdviceColumn()
	require.NoError(t, err)
	require.NoError(t, cs.EnableEquality(a))

	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	var from *layout.AssignedCell
	require.NoError(t, l.AssignRegion("src", func(r *layout.Region) error {
		from, err = r.AssignAdvice(a, 0, 9)
		return err
	}))
	err = l.AssignRegion("dst", func(r *layout.Region) error {
		_, err := r.CopyAdvice(from, b, 0)
		return err
	})
	require.ErrorIs(t, err, circuit.ErrInvalidExpression)
}

func TestCopyFromUncommittedRegion(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 2, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 2)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	// The region aborts after handing out a cell, so the cell never commits.
	var stale *layout.AssignedCell
	errAbort := l.AssignRegion("aborted", func(r *layout.Region) error {
		var err error
		stale, err = r.AssignAdvice(cols[0], 0, 3)
		require.NoError(t, err)
		return circuit.ErrUnsatisfiableInput
	})
	require.ErrorIs(t, errAbort, circuit.ErrUnsatisfiableInput)

	err = l.AssignRegion("uses stale", func(r *layout.Region) error {
		_, err := r.CopyAdvice(stale, cols[1], 0)
		return err
	})
	require.ErrorIs(t, err, circuit.ErrCrossPhaseReference)
}

func TestInstancePrefillAndCopy(t *testing.T) {
	cs := circuit.NewConstraintSystem(engine, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1})
	a, err := cs.AdviceColumn()
	require.NoError(t, err)
	inst, err := cs.InstanceColumn()
	require.NoError(t, err)
	require.NoError(t, cs.EnableEquality(a))
	require.NoError(t, cs.EnableEquality(inst))

	l, err := layout.NewLayouter(cs, [][]*big.Int{{big.NewInt(11), big.NewInt(22)}})
	require.NoError(t, err)

	var cell *layout.AssignedCell
	require.NoError(t, l.AssignRegion("load", func(r *layout.Region) error {
		cell, err = r.AssignAdviceFromInstance(inst, 1, a, 0)
		return err
	}))
	require.Equal(t, engine.FromInterface(22), cell.Value())

	// Public inputs beyond the supplied vector are unassigned.
	err = l.AssignRegion("missing", func(r *layout.Region) error {
		_, err := r.AssignAdviceFromInstance(inst, 2, a, 0)
		return err
	})
	require.ErrorIs(t, err, circuit.ErrUnassignedCell)

	require.NoError(t, l.ConstrainInstance(cell, inst, 1))

	res, err := l.Finalize()
	require.NoError(t, err)
	v, ok := res.Witness.At(inst.Index, 0)
	require.True(t, ok)
	require.Equal(t, engine.FromInterface(11), v)
	require.Len(t, res.Copies, 2)
}

func TestFinalizeSealsLayouter(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 1)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)

	_, err = l.Finalize()
	require.NoError(t, err)
	_, err = l.Finalize()
	require.ErrorIs(t, err, circuit.ErrPhaseViolation)
	err = l.AssignRegion("late", func(r *layout.Region) error {
		_, err := r.AssignAdvice(cols[0], 0, 1)
		return err
	})
	require.ErrorIs(t, err, circuit.ErrPhaseViolation)
}

func TestTooManyInstanceVectors(t *testing.T) {
	cs, _ := newCS(t, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 1, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 1)
	_, err := layout.NewLayouter(cs, [][]*big.Int{{big.NewInt(1)}, {big.NewInt(2)}})
	require.ErrorIs(t, err, circuit.ErrInvalidExpression)
}

func TestWitnessSerializeRoundTripsAssignments(t *testing.T) {
	cs, cols := newCS(t, circuit.Limits{MaxRows: 8, MaxAdviceColumns: 2, MaxFixedColumns: 1, MaxInstanceColumns: 1}, 2)
	l, err := layout.NewLayouter(cs, nil)
	require.NoError(t, err)
	require.NoError(t, l.AssignRegion("r", func(r *layout.Region) error {
		if _, err := r.AssignAdvice(cols[0], 0, 42); err != nil {
			return err
		}
		_, err := r.AssignAdvice(cols[1], 1, 43)
		return err
	}))
	res, err := l.Finalize()
	require.NoError(t, err)

	v, ok := res.Witness.At(cols[0].Index, 0)
	require.True(t, ok)
	require.Equal(t, engine.FromInterface(42), v)
	_, ok = res.Witness.At(cols[0].Index, 1)
	require.False(t, ok)

	data := res.Witness.Serialize()
	back, err := layout.DeserializeWitness(engine, data)
	require.NoError(t, err)
	require.Equal(t, data, back.Serialize())
	v, ok = back.At(cols[1].Index, 1)
	require.True(t, ok)
	require.Equal(t, engine.FromInterface(43), v)
	_, ok = back.At(cols[1].Index, 0)
	require.False(t, ok)
}
