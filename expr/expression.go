// Package expr implements the polynomial expressions gates are made of:
// sums of coefficient-weighted products of cell queries. The representation
// is a flattened, canonically sorted term list, in the manner of gnark's
// frontend/internal/expr.
package expr

import (
	"sort"

	"github.com/consensys/gnark/constraint"
)

// Expression is a polynomial over cell queries, kept sorted by term product.
// A nil or empty expression is the zero polynomial.
type Expression []Term

// NewConstant returns the constant polynomial c.
func NewConstant(c constraint.Element) Expression {
	return Expression{NewTerm(c)}
}

// NewSingle returns c * q.
func NewSingle(q Query, c constraint.Element) Expression {
	return Expression{NewTerm(c, q)}
}

func (e Expression) Clone() Expression {
	res := make(Expression, len(e))
	copy(res, e)
	return res
}

// Len returns the number of terms (implements sort.Interface)
func (e Expression) Len() int {
	return len(e)
}

// Swap swaps two terms (implements sort.Interface)
func (e Expression) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Less orders terms by query product (implements sort.Interface)
func (e Expression) Less(i, j int) bool {
	return e[i].cmpProduct(e[j]) < 0
}

// Equal returns true if both SORTED expressions are the same
//
// pre conditions: e and o are sorted
func (e Expression) Equal(o Expression) bool {
	if len(e) != len(o) {
		return false
	}
	for i := range e {
		if e[i].Coeff != o[i].Coeff || !e[i].sameProduct(o[i]) {
			return false
		}
	}
	return true
}

// HashCode returns a fast-to-compute but NOT collision resistant hash code
// identifier for the expression
//
// requires sorted
func (e Expression) HashCode() uint64 {
	h := uint64(17)
	for _, t := range e {
		h = h*23 + t.HashCode()
	}
	return h
}

// Degree returns the degree of the polynomial.
func (e Expression) Degree() int {
	res := 0
	for _, t := range e {
		if t.Degree() > res {
			res = t.Degree()
		}
	}
	return res
}

// IsZero reports whether the expression has no terms left after
// normalization.
func (e Expression) IsZero() bool {
	return len(e) == 0
}

// Queries returns the distinct cell queries the expression reads, in
// first-seen order.
func (e Expression) Queries() []Query {
	seen := make(map[Query]struct{})
	var res []Query
	for _, t := range e {
		for _, q := range t.Queries {
			if _, ok := seen[q]; !ok {
				seen[q] = struct{}{}
				res = append(res, q)
			}
		}
	}
	return res
}

// Eval evaluates the expression, resolving each query through at. The
// resolver's error aborts the evaluation.
func (e Expression) Eval(f constraint.Field, at func(Query) (constraint.Element, error)) (constraint.Element, error) {
	var sum constraint.Element
	for _, t := range e {
		v := t.Coeff
		for _, q := range t.Queries {
			x, err := at(q)
			if err != nil {
				return constraint.Element{}, err
			}
			v = f.Mul(v, x)
		}
		sum = f.Add(sum, v)
	}
	return sum, nil
}

// normalize sorts the term list, merges terms with equal products and drops
// zero coefficients.
func normalize(f constraint.Field, e Expression) Expression {
	sort.Sort(e)
	res := make(Expression, 0, len(e))
	for _, t := range e {
		if n := len(res); n > 0 && res[n-1].sameProduct(t) {
			res[n-1].Coeff = f.Add(res[n-1].Coeff, t.Coeff)
			continue
		}
		res = append(res, t)
	}
	out := res[:0]
	for _, t := range res {
		if !t.Coeff.IsZero() {
			out = append(out, t)
		}
	}
	return out
}

// Add returns a + b.
func Add(f constraint.Field, a, b Expression) Expression {
	res := make(Expression, 0, len(a)+len(b))
	res = append(res, a...)
	res = append(res, b...)
	return normalize(f, res)
}

// Sub returns a - b.
func Sub(f constraint.Field, a, b Expression) Expression {
	return Add(f, a, Neg(f, b))
}

// Neg returns -a.
func Neg(f constraint.Field, a Expression) Expression {
	res := a.Clone()
	for i := range res {
		res[i].Coeff = f.Neg(res[i].Coeff)
	}
	return res
}

// Mul returns a * b, expanding the product of the two term lists.
func Mul(f constraint.Field, a, b Expression) Expression {
	res := make(Expression, 0, len(a)*len(b))
	for _, ta := range a {
		for _, tb := range b {
			res = append(res, ta.mul(f, tb))
		}
	}
	return normalize(f, res)
}

// Scale returns c * a.
func Scale(f constraint.Field, a Expression, c constraint.Element) Expression {
	res := a.Clone()
	for i := range res {
		res[i].Coeff = f.Mul(res[i].Coeff, c)
	}
	return normalize(f, res)
}
