// Package boolean provides a bit-assertion chip: a single advice column
// whose cells are constrained to 0 or 1 wherever the selector is enabled.
package boolean

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/HawkeWei/halo2-examples/layout"
)

// Config records the column and selector the chip owns.
type Config struct {
	Advice circuit.Column
	SBool  circuit.Selector
}

// Chip constrains cells with the booleanity gate s * b * (1 - b).
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

// Configure registers the booleanity gate over the given advice column.
func Configure(meta *circuit.ConstraintSystem, advice circuit.Column) (Config, error) {
	if err := meta.EnableEquality(advice); err != nil {
		return Config{}, err
	}
	sBool, err := meta.Selector()
	if err != nil {
		return Config{}, err
	}
	err = meta.CreateGate("bool", func(v *circuit.VirtualCells) expr.Expression {
		s := v.QuerySelector(sBool)
		b := v.QueryAdvice(advice, expr.Cur)
		return v.Mul(s, v.Mul(b, v.Sub(v.Constant(1), b)))
	})
	if err != nil {
		return Config{}, err
	}
	return Config{Advice: advice, SBool: sBool}, nil
}

// AssertBit assigns the value into a constrained cell. Values other than 0
// and 1 are rejected before they reach the witness table.
func (c *Chip) AssertBit(l *layout.Layouter, value interface{}) (*layout.AssignedCell, error) {
	f := l.Field()
	e := f.FromInterface(value)
	if !e.IsZero() && !f.IsOne(e) {
		return nil, fmt.Errorf("%w: %s is not a bit", circuit.ErrUnsatisfiableInput, f.String(e))
	}
	var cell *layout.AssignedCell
	err := l.AssignRegion("assert bit", func(r *layout.Region) error {
		if err := r.EnableSelector(c.config.SBool, 0); err != nil {
			return err
		}
		var err error
		cell, err = r.AssignAdvice(c.config.Advice, 0, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cell, nil
}
