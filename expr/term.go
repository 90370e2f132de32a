package expr

// similar to gnark frontend/internal/expr/term, but a term multiplies an
// arbitrary product of cell queries instead of variable ids

import (
	"sort"

	"github.com/consensys/gnark/constraint"
)

// Term is coeff * q0 * q1 * ... for a (possibly empty) product of cell
// queries. An empty product is a constant term.
type Term struct {
	Coeff   constraint.Element
	Queries []Query
}

// NewTerm returns a term with its query product in canonical order.
func NewTerm(coeff constraint.Element, queries ...Query) Term {
	qs := make([]Query, len(queries))
	copy(qs, queries)
	sort.Slice(qs, func(i, j int) bool { return qs[i].cmp(qs[j]) < 0 })
	return Term{Coeff: coeff, Queries: qs}
}

// Degree returns the number of queried cells multiplied in this term.
func (t Term) Degree() int {
	return len(t.Queries)
}

func (t Term) HashCode() uint64 {
	x := t.Coeff[0] ^ t.Coeff[1] ^ t.Coeff[2] ^ t.Coeff[3] ^ t.Coeff[4] ^ t.Coeff[5]
	for _, q := range t.Queries {
		x = x*31 + q.HashCode()
	}
	return x
}

// sameProduct reports whether both terms multiply the same cells.
//
// pre condition: both query products are in canonical order.
func (t Term) sameProduct(o Term) bool {
	if len(t.Queries) != len(o.Queries) {
		return false
	}
	for i := range t.Queries {
		if t.Queries[i] != o.Queries[i] {
			return false
		}
	}
	return true
}

// cmpProduct orders terms by their query product, lexicographically with
// shorter products first. The coefficient does not participate.
func (t Term) cmpProduct(o Term) int {
	n := len(t.Queries)
	if len(o.Queries) < n {
		n = len(o.Queries)
	}
	for i := 0; i < n; i++ {
		if c := t.Queries[i].cmp(o.Queries[i]); c != 0 {
			return c
		}
	}
	if len(t.Queries) != len(o.Queries) {
		if len(t.Queries) < len(o.Queries) {
			return -1
		}
		return 1
	}
	return 0
}

// mul returns the product of two terms under the given field.
func (t Term) mul(f constraint.Field, o Term) Term {
	qs := make([]Query, 0, len(t.Queries)+len(o.Queries))
	qs = append(qs, t.Queries...)
	qs = append(qs, o.Queries...)
	return NewTerm(f.Mul(t.Coeff, o.Coeff), qs...)
}
