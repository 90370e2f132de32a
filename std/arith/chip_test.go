package arith_test

import (
	"math/big"
	"testing"

	halo2 "github.com/HawkeWei/halo2-examples"
	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field/bn254"
	"github.com/HawkeWei/halo2-examples/layout"
	"github.com/HawkeWei/halo2-examples/std/arith"
	"github.com/HawkeWei/halo2-examples/test"
	"github.com/stretchr/testify/require"
)

var limits = circuit.Limits{
	MaxRows:            16,
	MaxAdviceColumns:   2,
	MaxFixedColumns:    2,
	MaxInstanceColumns: 1,
}

type mulCircuit struct {
	A, B   interface{}
	config arith.Config
}

func (c *mulCircuit) Configure(meta *circuit.ConstraintSystem) error {
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
	c.config, err = arith.Configure(meta, [2]circuit.Column{a0, a1}, instance, constant)
	return err
}

func (c *mulCircuit) Synthesize(l *layout.Layouter) error {
	chip := arith.NewChip(c.config)
	a, err := chip.LoadPrivate(l, c.A)
	if err != nil {
		return err
	}
	b, err := chip.LoadPrivate(l, c.B)
	if err != nil {
		return err
	}
	out, err := chip.Mul(l, a, b)
	if err != nil {
		return err
	}
	return chip.ExposePublic(l, out, 0)
}

func TestMul(t *testing.T) {
	assert := test.NewAssert(t)
	cr := assert.Compile(bn254.ScalarField, &mulCircuit{A: 6, B: 7}, limits, [][]*big.Int{{big.NewInt(42)}})
	assert.Satisfied(cr)

	cr = assert.Compile(bn254.ScalarField, &mulCircuit{A: 6, B: 7}, limits, [][]*big.Int{{big.NewInt(43)}})
	assert.NotSatisfied(cr)
}

func TestMulRequiresInputs(t *testing.T) {
	assert := test.NewAssert(t)
	assert.CompileFailed(bn254.ScalarField, &nilInputCircuit{}, limits, [][]*big.Int{{big.NewInt(0)}},
		circuit.ErrUnsatisfiableInput)
}

type nilInputCircuit struct {
	config arith.Config
}

func (c *nilInputCircuit) Configure(meta *circuit.ConstraintSystem) error {
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
	c.config, err = arith.Configure(meta, [2]circuit.Column{a0, a1}, instance, constant)
	return err
}

func (c *nilInputCircuit) Synthesize(l *layout.Layouter) error {
	chip := arith.NewChip(c.config)
	_, err := chip.Mul(l, nil, nil)
	return err
}

func TestLoadConstantWritesFixedColumn(t *testing.T) {
	cr, err := halo2.Compile(bn254.ScalarField, &arith.Circuit{Constant: 7, A: 1, B: 1},
		limits, [][]*big.Int{{big.NewInt(7)}})
	require.NoError(t, err)

	res := cr.GetResult()
	chipCfg := findConstantColumn(res.CS)
	found := false
	for row := 0; row < res.Rows; row++ {
		if v, ok := res.Witness.At(chipCfg, row); ok {
			require.Equal(t, "7", res.CS.Field().String(v))
			found = true
		}
	}
	require.True(t, found, "constant never written to the fixed column")
}

func findConstantColumn(cs *circuit.ConstraintSystem) int {
	col, ok := cs.ConstantColumn()
	if !ok {
		return -1
	}
	return col.Index
}
