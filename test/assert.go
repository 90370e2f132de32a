// Package test provides assertion helpers for circuit tests.
package test

import (
	"errors"
	"math/big"
	"testing"

	halo2 "github.com/HawkeWei/halo2-examples"
	"github.com/HawkeWei/halo2-examples/checker"
	"github.com/HawkeWei/halo2-examples/circuit"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Compile builds the circuit and fails the test on any build error.
func (a *Assert) Compile(fieldOrder *big.Int, c halo2.Circuit, limits circuit.Limits, instances [][]*big.Int) *halo2.CompileResult {
	a.t.Helper()
	cr, err := halo2.Compile(fieldOrder, c, limits, instances)
	if err != nil {
		a.t.Fatal("compile failed:", err)
	}
	return cr
}

// CompileFailed asserts the build aborts with the given sentinel error.
func (a *Assert) CompileFailed(fieldOrder *big.Int, c halo2.Circuit, limits circuit.Limits, instances [][]*big.Int, target error) {
	a.t.Helper()
	_, err := halo2.Compile(fieldOrder, c, limits, instances)
	if err == nil {
		a.t.Fatal("compile should fail")
	}
	if target != nil && !errors.Is(err, target) {
		a.t.Fatalf("compile failed with %v, want %v", err, target)
	}
}

// Satisfied asserts every gate and copy constraint holds on the witness.
func (a *Assert) Satisfied(cr *halo2.CompileResult) {
	a.t.Helper()
	if err := checker.Verify(cr.GetResult()); err != nil {
		a.t.Fatal("should be satisfied:", err)
	}
}

// NotSatisfied asserts some gate or copy constraint is violated.
func (a *Assert) NotSatisfied(cr *halo2.CompileResult) {
	a.t.Helper()
	if checker.CheckCircuit(cr.GetResult()) {
		a.t.Fatal("should not be satisfied")
	}
}
