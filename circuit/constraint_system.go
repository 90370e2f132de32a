// Package circuit holds the configuration half of a build: column and gate
// registries, selectors, equality/constant capabilities and the phase state
// machine. Registries populate during the configuration phase and freeze
// when synthesis begins; a build never mutates them afterwards.
package circuit

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/expr"
	"github.com/HawkeWei/halo2-examples/field"
)

// Limits bounds the resources one build may claim. All values must be
// positive for the corresponding resource to be usable.
type Limits struct {
	MaxRows            int
	MaxAdviceColumns   int
	MaxFixedColumns    int
	MaxInstanceColumns int
}

type phase uint8

const (
	phaseConfiguring phase = iota
	phaseSynthesizing
	phaseFinalized
)

func (p phase) String() string {
	switch p {
	case phaseConfiguring:
		return "configuring"
	case phaseSynthesizing:
		return "synthesizing"
	case phaseFinalized:
		return "finalized"
	}
	return "unknown"
}

// ConstraintSystem is the mutable builder threaded through a circuit's
// Configure calls. It owns the column and gate registries of one build;
// independent builds own independent systems.
type ConstraintSystem struct {
	f      field.Field
	limits Limits
	phase  phase

	columns    []Column
	nbAdvice   int
	nbFixed    int
	nbInstance int
	selectors  []Selector

	gates     []*Gate
	gateIndex expr.Map

	equality    map[int]struct{}
	constantCol int
}

func NewConstraintSystem(f field.Field, limits Limits) *ConstraintSystem {
	return &ConstraintSystem{
		f:           f,
		limits:      limits,
		gateIndex:   make(expr.Map),
		equality:    make(map[int]struct{}),
		constantCol: -1,
	}
}

func (cs *ConstraintSystem) Field() field.Field {
	return cs.f
}

func (cs *ConstraintSystem) Limits() Limits {
	return cs.limits
}

// Columns returns the global column list, in allocation order.
func (cs *ConstraintSystem) Columns() []Column {
	return cs.columns
}

// InstanceColumns returns the instance columns in allocation order. The
// i-th public-input vector supplied at synthesis binds to the i-th entry.
func (cs *ConstraintSystem) InstanceColumns() []Column {
	res := make([]Column, 0, cs.nbInstance)
	for _, c := range cs.columns {
		if c.Kind == Instance {
			res = append(res, c)
		}
	}
	return res
}

func (cs *ConstraintSystem) Gates() []*Gate {
	return cs.gates
}

func (cs *ConstraintSystem) configuring() error {
	if cs.phase != phaseConfiguring {
		return fmt.Errorf("%w: registry mutation while %s", ErrPhaseViolation, cs.phase)
	}
	return nil
}

func (cs *ConstraintSystem) addColumn(kind ColumnKind, count *int, max int) (Column, error) {
	if err := cs.configuring(); err != nil {
		return Column{}, err
	}
	if *count >= max {
		return Column{}, fmt.Errorf("%w: at most %d %s columns", ErrResourceExhausted, max, kind)
	}
	col := Column{Index: len(cs.columns), Kind: kind}
	cs.columns = append(cs.columns, col)
	*count++
	return col, nil
}

// AdviceColumn allocates a new advice (private witness) column.
func (cs *ConstraintSystem) AdviceColumn() (Column, error) {
	return cs.addColumn(Advice, &cs.nbAdvice, cs.limits.MaxAdviceColumns)
}

// FixedColumn allocates a new fixed (constant) column.
func (cs *ConstraintSystem) FixedColumn() (Column, error) {
	return cs.addColumn(Fixed, &cs.nbFixed, cs.limits.MaxFixedColumns)
}

// InstanceColumn allocates a new instance (public input) column.
func (cs *ConstraintSystem) InstanceColumn() (Column, error) {
	return cs.addColumn(Instance, &cs.nbInstance, cs.limits.MaxInstanceColumns)
}

// Selector allocates a selector on a dedicated fixed column. The column
// counts against the fixed-column budget.
func (cs *ConstraintSystem) Selector() (Selector, error) {
	col, err := cs.FixedColumn()
	if err != nil {
		return Selector{}, err
	}
	s := Selector{Col: col, Index: len(cs.selectors)}
	cs.selectors = append(cs.selectors, s)
	return s, nil
}

func (cs *ConstraintSystem) CheckColumn(col Column) error {
	if col.Index < 0 || col.Index >= len(cs.columns) || cs.columns[col.Index] != col {
		return fmt.Errorf("%w: column %d/%s not allocated", ErrInvalidExpression, col.Index, col.Kind)
	}
	return nil
}

// EnableEquality allows cells of the column to participate in copy
// constraints.
func (cs *ConstraintSystem) EnableEquality(col Column) error {
	if err := cs.configuring(); err != nil {
		return err
	}
	if err := cs.CheckColumn(col); err != nil {
		return err
	}
	cs.equality[col.Index] = struct{}{}
	return nil
}

// EqualityEnabled reports whether the column may appear in copy
// constraints.
func (cs *ConstraintSystem) EqualityEnabled(col Column) bool {
	_, ok := cs.equality[col.Index]
	return ok
}

// EnableConstant marks the fixed column used for global constant
// assignments. The column is implicitly equality enabled.
func (cs *ConstraintSystem) EnableConstant(col Column) error {
	if err := cs.configuring(); err != nil {
		return err
	}
	if err := cs.CheckColumn(col); err != nil {
		return err
	}
	if col.Kind != Fixed {
		return fmt.Errorf("%w: constant column must be fixed, got %s", ErrInvalidExpression, col.Kind)
	}
	cs.constantCol = col.Index
	cs.equality[col.Index] = struct{}{}
	return nil
}

// ConstantColumn returns the constant-enabled fixed column, if any.
func (cs *ConstraintSystem) ConstantColumn() (Column, bool) {
	if cs.constantCol < 0 {
		return Column{}, false
	}
	return cs.columns[cs.constantCol], true
}

// CreateGate registers a named polynomial constraint. The builder callback
// queries columns at relative rotations through the passed VirtualCells and
// returns the polynomial, which must vanish on every active row.
func (cs *ConstraintSystem) CreateGate(name string, build func(v *VirtualCells) expr.Expression) error {
	if err := cs.configuring(); err != nil {
		return err
	}
	v := &VirtualCells{cs: cs}
	poly := build(v)
	if v.err != nil {
		return fmt.Errorf("gate %q: %w", name, v.err)
	}
	if poly.IsZero() {
		return fmt.Errorf("gate %q: %w: polynomial is identically zero", name, ErrInvalidExpression)
	}
	if prev, ok := cs.gateIndex.Find(poly); ok {
		return fmt.Errorf("gate %q: %w: duplicates gate %q", name, ErrInvalidExpression, prev.(string))
	}
	cs.gateIndex.Set(poly, name)
	cs.gates = append(cs.gates, &Gate{
		Name:      name,
		Poly:      poly,
		Queries:   poly.Queries(),
		Selectors: v.selectors,
	})
	return nil
}

// BeginSynthesis irreversibly closes the configuration phase.
func (cs *ConstraintSystem) BeginSynthesis() error {
	if cs.phase != phaseConfiguring {
		return fmt.Errorf("%w: synthesis already started", ErrPhaseViolation)
	}
	cs.phase = phaseSynthesizing
	return nil
}

// EndSynthesis irreversibly closes the synthesis phase.
func (cs *ConstraintSystem) EndSynthesis() error {
	if cs.phase != phaseSynthesizing {
		return fmt.Errorf("%w: not synthesizing", ErrPhaseViolation)
	}
	cs.phase = phaseFinalized
	return nil
}
