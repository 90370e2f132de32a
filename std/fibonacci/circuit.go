package fibonacci

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/layout"
)

// Circuit proves that f(N) equals the public input at instance row 2, for
// the sequence seeded by f(0) and f(1) at instance rows 0 and 1.
type Circuit struct {
	N int

	config Config
}

func (c *Circuit) Configure(meta *circuit.ConstraintSystem) error {
	var advice [3]circuit.Column
	var err error
	for i := range advice {
		if advice[i], err = meta.AdviceColumn(); err != nil {
			return err
		}
	}
	instance, err := meta.InstanceColumn()
	if err != nil {
		return err
	}
	c.config, err = Configure(meta, advice, instance)
	return err
}

func (c *Circuit) Synthesize(l *layout.Layouter) error {
	if c.N < 2 {
		return fmt.Errorf("%w: chain index %d, need at least 2", circuit.ErrUnsatisfiableInput, c.N)
	}
	chip := NewChip(c.config)

	prevB, prevC, err := chip.AssignFirstRow(l)
	if err != nil {
		return err
	}
	for i := 3; i <= c.N; i++ {
		next, err := chip.AssignRow(l, prevB, prevC)
		if err != nil {
			return err
		}
		prevB, prevC = prevC, next
	}

	return chip.ExposePublic(l, prevC, 2)
}
