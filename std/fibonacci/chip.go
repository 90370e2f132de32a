// Package fibonacci provides a chip computing Fibonacci-style addition
// chains over three advice columns, seeding the chain from public inputs
// and exposing the final element back to the verifier.
package fibonacci

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/HawkeWei/halo2-examples/layout"
)

// Config records the columns and addition selector the chip owns.
type Config struct {
	Advice   [3]circuit.Column
	Instance circuit.Column
	SAdd     circuit.Selector
}

// Chip lays out one addition per row:
//
//	| a | b | c | s_add |
//	|---|---|---|-------|
//	| a | b | c |   1   |
//
// with c constrained to a+b whenever s_add is enabled. Successive rows are
// chained by copy constraints instead of rotations.
type Chip struct {
	config Config
}

var _ circuit.Chip[Config] = (*Chip)(nil)

func NewChip(config Config) *Chip {
	return &Chip{config: config}
}

func (c *Chip) Config() Config {
	return c.config
}

// Configure registers the addition gate over the given columns and enables
// equality on every column the chaining relies on.
func Configure(meta *circuit.ConstraintSystem, advice [3]circuit.Column, instance circuit.Column) (Config, error) {
	if err := meta.EnableEquality(instance); err != nil {
		return Config{}, err
	}
	for _, col := range advice {
		if err := meta.EnableEquality(col); err != nil {
			return Config{}, err
		}
	}
	sAdd, err := meta.Selector()
	if err != nil {
		return Config{}, err
	}
	err = meta.CreateGate("add", func(v *circuit.VirtualCells) expr.Expression {
		s := v.QuerySelector(sAdd)
		a := v.QueryAdvice(advice[0], expr.Cur)
		b := v.QueryAdvice(advice[1], expr.Cur)
		c := v.QueryAdvice(advice[2], expr.Cur)
		return v.Mul(s, v.Sub(v.Add(a, b), c))
	})
	if err != nil {
		return Config{}, err
	}
	return Config{Advice: advice, Instance: instance, SAdd: sAdd}, nil
}

// AssignFirstRow seeds the chain: f(0) and f(1) are copied out of the
// public-input column, and f(2) is computed on the same row.
func (c *Chip) AssignFirstRow(l *layout.Layouter) (*layout.AssignedCell, *layout.AssignedCell, error) {
	var b, sum *layout.AssignedCell
	err := l.AssignRegion("first row", func(r *layout.Region) error {
		if err := r.EnableSelector(c.config.SAdd, 0); err != nil {
			return err
		}
		a, err := r.AssignAdviceFromInstance(c.config.Instance, 0, c.config.Advice[0], 0)
		if err != nil {
			return err
		}
		b, err = r.AssignAdviceFromInstance(c.config.Instance, 1, c.config.Advice[1], 0)
		if err != nil {
			return err
		}
		sum, err = r.AssignAdvice(c.config.Advice[2], 0, r.Field().Add(a.Value(), b.Value()))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return b, sum, nil
}

// AssignRow extends the chain by one element: the previous row's b and c
// are copied into a and b, and the new c is their sum.
func (c *Chip) AssignRow(l *layout.Layouter, prevB, prevC *layout.AssignedCell) (*layout.AssignedCell, error) {
	if prevB == nil || prevC == nil {
		return nil, fmt.Errorf("%w: row extension requires the previous two chain cells", circuit.ErrUnsatisfiableInput)
	}
	var sum *layout.AssignedCell
	err := l.AssignRegion("next row", func(r *layout.Region) error {
		if err := r.EnableSelector(c.config.SAdd, 0); err != nil {
			return err
		}
		if _, err := r.CopyAdvice(prevB, c.config.Advice[0], 0); err != nil {
			return err
		}
		if _, err := r.CopyAdvice(prevC, c.config.Advice[1], 0); err != nil {
			return err
		}
		var err error
		sum, err = r.AssignAdvice(c.config.Advice[2], 0, r.Field().Add(prevB.Value(), prevC.Value()))
		return err
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// ExposePublic constrains the cell to equal the public input at the given
// instance row.
func (c *Chip) ExposePublic(l *layout.Layouter, cell *layout.AssignedCell, row int) error {
	return l.ConstrainInstance(cell, c.config.Instance, row)
}
