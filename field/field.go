// Package field abstracts the scalar field that coefficients and witness
// values live in. The concrete engines wrap gnark-crypto field arithmetic
// behind gnark's constraint.Field interface.
package field

import (
	"fmt"
	"math/big"

	"github.com/HawkeWei/halo2-examples/field/babybear"
	"github.com/HawkeWei/halo2-examples/field/bn254"
	"github.com/consensys/gnark/constraint"
)

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}
	}
	if x.Cmp(babybear.ScalarField) == 0 {
		return &babybear.Field{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}
