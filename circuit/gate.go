package circuit

import "github.com/HawkeWei/halo2-examples/expr"

// Gate is one named polynomial constraint. Its polynomial must evaluate to
// zero on every row it is active on, for all valid assignments.
//
// A gate is active on a row when every selector it queries is enabled
// there. A gate querying no selector is active on every used row.
type Gate struct {
	Name      string
	Poly      expr.Expression
	Queries   []expr.Query
	Selectors []Selector
}
