// Package halo2 builds column-based arithmetic circuits and fills their
// witness tables. A circuit declares columns and gates through a
// ConstraintSystem during configuration, then writes cells region by
// region through a Layouter during synthesis; Compile runs both phases and
// returns the finished table, gate set and copy constraints for a proving
// backend.
package halo2

import (
	"math/big"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field"
	"github.com/HawkeWei/halo2-examples/layout"
	"github.com/HawkeWei/halo2-examples/logger"
)

// Circuit is the interface a circuit driver implements. Configure declares
// columns and gates on the constraint system, storing the resulting chip
// configs on the receiver; Synthesize fills the table through the layouter
// by calling chip instructions in a fixed, deterministic order.
type Circuit interface {
	Configure(meta *circuit.ConstraintSystem) error
	Synthesize(l *layout.Layouter) error
}

// CompileResult wraps the artifacts of a successful build.
type CompileResult struct {
	res *layout.Result
}

// GetResult returns the build artifacts consumed by the proving backend:
// witness table, gates, copy constraints and public inputs.
func (c *CompileResult) GetResult() *layout.Result {
	return c.res
}

// GetWitness returns the filled witness table.
func (c *CompileResult) GetWitness() *layout.Witness {
	return c.res.Witness
}

// Serialize returns the deterministic byte encoding of the witness table.
func (c *CompileResult) Serialize() []byte {
	return c.res.Witness.Serialize()
}

// Compile runs the configuration and synthesis phases of the circuit over
// the scalar field of the given order and returns the finished build.
// The i-th instance vector supplies the public inputs of the i-th instance
// column. Any violation aborts the build with no partial result.
func Compile(fieldOrder *big.Int, c Circuit, limits circuit.Limits, instances [][]*big.Int) (*CompileResult, error) {
	f := field.GetFieldFromOrder(fieldOrder)

	cs := circuit.NewConstraintSystem(f, limits)
	if err := c.Configure(cs); err != nil {
		return nil, err
	}

	l, err := layout.NewLayouter(cs, instances)
	if err != nil {
		return nil, err
	}
	if err := c.Synthesize(l); err != nil {
		return nil, err
	}
	res, err := l.Finalize()
	if err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Info().
		Int("nbColumns", len(cs.Columns())).
		Int("nbGates", len(cs.Gates())).
		Int("nbRegions", len(res.Regions)).
		Int("nbCopies", len(res.Copies)).
		Int("rows", res.Rows).
		Msg("synthesized")

	return &CompileResult{res: res}, nil
}
