package test

import (
	"math/big"
	"math/rand"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/HawkeWei/halo2-examples/field"
	"github.com/HawkeWei/halo2-examples/layout"
)

type randRange struct {
	l int
	r int
}

func (rr randRange) sample(r *rand.Rand) int {
	return r.Intn(rr.r-rr.l+1) + rr.l
}

type randomCircuitConfig struct {
	seed       int
	nbInputs   randRange
	nbOps      randRange
	addPercent int
}

const (
	opAdd = iota
	opMul
)

type randomOp struct {
	kind int
	x, y int
}

// randomCircuit chains random additions and multiplications over two advice
// columns and exposes the final value as a public input. The op sequence is
// fixed by the seed, so the expected output can be computed independently of
// synthesis.
type randomCircuit struct {
	conf   *randomCircuitConfig
	inputs []int
	ops    []randomOp

	advice   [2]circuit.Column
	instance circuit.Column
	sAdd     circuit.Selector
	sMul     circuit.Selector
}

func newRandomCircuit(conf *randomCircuitConfig) *randomCircuit {
	r := rand.New(rand.NewSource(int64(conf.seed)))
	n := conf.nbInputs.sample(r)
	inputs := make([]int, n)
	for i := range inputs {
		inputs[i] = r.Intn(1 << 20)
	}
	ops := make([]randomOp, conf.nbOps.sample(r))
	for i := range ops {
		kind := opMul
		if r.Intn(100) < conf.addPercent {
			kind = opAdd
		}
		ops[i] = randomOp{
			kind: kind,
			x:    r.Intn(n + i),
			y:    r.Intn(n + i),
		}
	}
	return &randomCircuit{conf: conf, inputs: inputs, ops: ops}
}

// expected replays the op sequence over the field and returns the final
// value.
func (c *randomCircuit) expected(f field.Field) *big.Int {
	vals := make([]*big.Int, 0, len(c.inputs)+len(c.ops))
	mod := f.Field()
	for _, in := range c.inputs {
		vals = append(vals, big.NewInt(int64(in)))
	}
	for _, op := range c.ops {
		v := new(big.Int)
		if op.kind == opAdd {
			v.Add(vals[op.x], vals[op.y])
		} else {
			v.Mul(vals[op.x], vals[op.y])
		}
		vals = append(vals, v.Mod(v, mod))
	}
	return vals[len(vals)-1]
}

func (c *randomCircuit) limits() circuit.Limits {
	return circuit.Limits{
		MaxRows:            2 * (len(c.inputs) + len(c.ops)),
		MaxAdviceColumns:   2,
		MaxFixedColumns:    2,
		MaxInstanceColumns: 1,
	}
}

func (c *randomCircuit) Configure(meta *circuit.ConstraintSystem) error {
	var err error
	for i := range c.advice {
		if c.advice[i], err = meta.AdviceColumn(); err != nil {
			return err
		}
		if err = meta.EnableEquality(c.advice[i]); err != nil {
			return err
		}
	}
	if c.instance, err = meta.InstanceColumn(); err != nil {
		return err
	}
	if err = meta.EnableEquality(c.instance); err != nil {
		return err
	}
	if c.sAdd, err = meta.Selector(); err != nil {
		return err
	}
	if c.sMul, err = meta.Selector(); err != nil {
		return err
	}
	err = meta.CreateGate("add", func(v *circuit.VirtualCells) expr.Expression {
		s := v.QuerySelector(c.sAdd)
		lhs := v.QueryAdvice(c.advice[0], expr.Cur)
		rhs := v.QueryAdvice(c.advice[1], expr.Cur)
		out := v.QueryAdvice(c.advice[0], expr.Next)
		return v.Mul(s, v.Sub(v.Add(lhs, rhs), out))
	})
	if err != nil {
		return err
	}
	return meta.CreateGate("mul", func(v *circuit.VirtualCells) expr.Expression {
		s := v.QuerySelector(c.sMul)
		lhs := v.QueryAdvice(c.advice[0], expr.Cur)
		rhs := v.QueryAdvice(c.advice[1], expr.Cur)
		out := v.QueryAdvice(c.advice[0], expr.Next)
		return v.Mul(s, v.Sub(v.Mul(lhs, rhs), out))
	})
}

func (c *randomCircuit) Synthesize(l *layout.Layouter) error {
	f := l.Field()
	cells := make([]*layout.AssignedCell, 0, len(c.inputs)+len(c.ops))
	for _, in := range c.inputs {
		var cell *layout.AssignedCell
		err := l.AssignRegion("input", func(r *layout.Region) error {
			var err error
			cell, err = r.AssignAdvice(c.advice[0], 0, in)
			return err
		})
		if err != nil {
			return err
		}
		cells = append(cells, cell)
	}
	for _, op := range c.ops {
		x, y := cells[op.x], cells[op.y]
		sel := c.sMul
		res := f.Mul(x.Value(), y.Value())
		if op.kind == opAdd {
			sel = c.sAdd
			res = f.Add(x.Value(), y.Value())
		}
		var cell *layout.AssignedCell
		err := l.AssignRegion("op", func(r *layout.Region) error {
			if err := r.EnableSelector(sel, 0); err != nil {
				return err
			}
			if _, err := r.CopyAdvice(x, c.advice[0], 0); err != nil {
				return err
			}
			if _, err := r.CopyAdvice(y, c.advice[1], 0); err != nil {
				return err
			}
			var err error
			cell, err = r.AssignAdvice(c.advice[0], 1, res)
			return err
		})
		if err != nil {
			return err
		}
		cells = append(cells, cell)
	}
	return l.ConstrainInstance(cells[len(cells)-1], c.instance, 0)
}
