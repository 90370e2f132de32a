// Package arith provides a numeric chip over two advice columns: loading
// private values and constants, field multiplication, and exposing results
// as public outputs.
package arith

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/HawkeWei/halo2-examples/layout"
)

// NumInstructions is the instruction set the chip exposes to circuits.
type NumInstructions interface {
	LoadPrivate(l *layout.Layouter, value interface{}) (*layout.AssignedCell, error)
	LoadConstant(l *layout.Layouter, value interface{}) (*layout.AssignedCell, error)
	Mul(l *layout.Layouter, a, b *layout.AssignedCell) (*layout.AssignedCell, error)
	ExposePublic(l *layout.Layouter, c *layout.AssignedCell, row int) error
}

// Config records the columns, constant column and multiplication selector
// the chip owns.
type Config struct {
	Advice   [2]circuit.Column
	Instance circuit.Column
	Constant circuit.Column
	SMul     circuit.Selector
}

// Chip implements NumInstructions with a single multiplication gate laid
// out as
//
//	| a0  | a1  | s_mul |
//	|-----|-----|-------|
//	| lhs | rhs |   1   |
//	| out |     |       |
type Chip struct {
	config Config
}

var (
	_ circuit.Chip[Config] = (*Chip)(nil)
	_ NumInstructions      = (*Chip)(nil)
)

func NewChip(config Config) *Chip {
	return &Chip{config: config}
}

func (c *Chip) Config() Config {
	return c.config
}

// Configure registers the chip's gate over the columns handed to it and
// enables the equality and constant capabilities the instructions rely on.
func Configure(meta *circuit.ConstraintSystem, advice [2]circuit.Column, instance, constant circuit.Column) (Config, error) {
	if err := meta.EnableEquality(instance); err != nil {
		return Config{}, err
	}
	for _, col := range advice {
		if err := meta.EnableEquality(col); err != nil {
			return Config{}, err
		}
	}
	if err := meta.EnableConstant(constant); err != nil {
		return Config{}, err
	}
	sMul, err := meta.Selector()
	if err != nil {
		return Config{}, err
	}
	err = meta.CreateGate("mul", func(v *circuit.VirtualCells) expr.Expression {
		lhs := v.QueryAdvice(advice[0], expr.Cur)
		rhs := v.QueryAdvice(advice[1], expr.Cur)
		out := v.QueryAdvice(advice[0], expr.Next)
		s := v.QuerySelector(sMul)
		return v.Mul(s, v.Sub(v.Mul(lhs, rhs), out))
	})
	if err != nil {
		return Config{}, err
	}
	return Config{
		Advice:   advice,
		Instance: instance,
		Constant: constant,
		SMul:     sMul,
	}, nil
}

// LoadPrivate assigns a private witness value into a fresh cell.
func (c *Chip) LoadPrivate(l *layout.Layouter, value interface{}) (*layout.AssignedCell, error) {
	var cell *layout.AssignedCell
	err := l.AssignRegion("load private", func(r *layout.Region) error {
		var err error
		cell, err = r.AssignAdvice(c.config.Advice[0], 0, value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cell, nil
}

// LoadConstant assigns a circuit constant and returns the advice cell
// copy-constrained to it.
func (c *Chip) LoadConstant(l *layout.Layouter, value interface{}) (*layout.AssignedCell, error) {
	var cell *layout.AssignedCell
	err := l.AssignRegion("load constant", func(r *layout.Region) error {
		var err error
		cell, err = r.AssignAdviceFromConstant(c.config.Advice[0], 0, value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cell, nil
}

// Mul returns a cell constrained to hold a*b. The inputs may live anywhere
// in the circuit; they are copied into the chip's own region first.
func (c *Chip) Mul(l *layout.Layouter, a, b *layout.AssignedCell) (*layout.AssignedCell, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: mul requires two assigned cells", circuit.ErrUnsatisfiableInput)
	}
	var cell *layout.AssignedCell
	err := l.AssignRegion("mul", func(r *layout.Region) error {
		if err := r.EnableSelector(c.config.SMul, 0); err != nil {
			return err
		}
		if _, err := r.CopyAdvice(a, c.config.Advice[0], 0); err != nil {
			return err
		}
		if _, err := r.CopyAdvice(b, c.config.Advice[1], 0); err != nil {
			return err
		}
		res := r.Field().Mul(a.Value(), b.Value())
		var err error
		cell, err = r.AssignAdvice(c.config.Advice[0], 1, res)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cell, nil
}

// ExposePublic constrains the cell to equal the public input at the given
// instance row.
func (c *Chip) ExposePublic(l *layout.Layouter, cell *layout.AssignedCell, row int) error {
	return l.ConstrainInstance(cell, c.config.Instance, row)
}
