package boolean_test

import (
	"math/big"
	"testing"

	halo2 "github.com/HawkeWei/halo2-examples"
	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field/bn254"
	"github.com/HawkeWei/halo2-examples/layout"
	"github.com/HawkeWei/halo2-examples/std/boolean"
	"github.com/HawkeWei/halo2-examples/test"
)

var limits = circuit.Limits{
	MaxRows:            8,
	MaxAdviceColumns:   1,
	MaxFixedColumns:    1,
	MaxInstanceColumns: 1,
}

type bitsCircuit struct {
	Bits []interface{}

	config boolean.Config
}

func (c *bitsCircuit) Configure(meta *circuit.ConstraintSystem) error {
	advice, err := meta.AdviceColumn()
	if err != nil {
		return err
	}
	c.config, err = boolean.Configure(meta, advice)
	return err
}

func (c *bitsCircuit) Synthesize(l *layout.Layouter) error {
	chip := boolean.NewChip(c.config)
	for _, b := range c.Bits {
		if _, err := chip.AssertBit(l, b); err != nil {
			return err
		}
	}
	return nil
}

func TestAssertBit(t *testing.T) {
	assert := test.NewAssert(t)
	cr := assert.Compile(bn254.ScalarField, &bitsCircuit{Bits: []interface{}{0, 1, 1, 0}}, limits, nil)
	assert.Satisfied(cr)
}

func TestAssertBitRejectsNonBit(t *testing.T) {
	assert := test.NewAssert(t)
	assert.CompileFailed(bn254.ScalarField, &bitsCircuit{Bits: []interface{}{0, 2}}, limits, nil,
		circuit.ErrUnsatisfiableInput)
}

func TestBooleanGateCatchesForgedWitness(t *testing.T) {
	assert := test.NewAssert(t)

	// Bypass AssertBit and write a non-bit under an enabled selector.
	forged := &forgedCircuit{}
	cr, err := halo2.Compile(bn254.ScalarField, forged, limits, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.NotSatisfied(cr)
}

type forgedCircuit struct {
	config boolean.Config
}

func (c *forgedCircuit) Configure(meta *circuit.ConstraintSystem) error {
	advice, err := meta.AdviceColumn()
	if err != nil {
		return err
	}
	c.config, err = boolean.Configure(meta, advice)
	return err
}

func (c *forgedCircuit) Synthesize(l *layout.Layouter) error {
	return l.AssignRegion("forged bit", func(r *layout.Region) error {
		if err := r.EnableSelector(c.config.SBool, 0); err != nil {
			return err
		}
		_, err := r.AssignAdvice(c.config.Advice, 0, big.NewInt(2))
		return err
	})
}
