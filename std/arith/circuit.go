package arith

import (
	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/layout"
)

// Circuit proves knowledge of a and b such that Constant * a^2 * b^2 equals
// the public input at instance row 0.
type Circuit struct {
	Constant interface{}
	A        interface{}
	B        interface{}

	config Config
}

func (c *Circuit) Configure(meta *circuit.ConstraintSystem) error {
	a0, err := meta.AdviceColumn()
	if err != nil {
		return err
	}
	a1, err := meta.AdviceColumn()
	if err != nil {
		return err
	}
	instance, err := meta.InstanceColumn()
	if err != nil {
		return err
	}
	constant, err := meta.FixedColumn()
	if err != nil {
		return err
	}
	c.config, err = Configure(meta, [2]circuit.Column{a0, a1}, instance, constant)
	return err
}

func (c *Circuit) Synthesize(l *layout.Layouter) error {
	chip := NewChip(c.config)

	a, err := chip.LoadPrivate(l, c.A)
	if err != nil {
		return err
	}
	b, err := chip.LoadPrivate(l, c.B)
	if err != nil {
		return err
	}
	k, err := chip.LoadConstant(l, c.Constant)
	if err != nil {
		return err
	}

	aSq, err := chip.Mul(l, a, a)
	if err != nil {
		return err
	}
	bSq, err := chip.Mul(l, b, b)
	if err != nil {
		return err
	}
	absq, err := chip.Mul(l, aSq, bSq)
	if err != nil {
		return err
	}
	out, err := chip.Mul(l, k, absq)
	if err != nil {
		return err
	}

	return chip.ExposePublic(l, out, 0)
}
