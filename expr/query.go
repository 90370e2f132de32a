package expr

// Rotation addresses a row relative to the one a gate is evaluated on.
// The most common rotations are Cur (this row), Next and Prev; other
// offsets can be expressed as Rotation(n).
type Rotation int

const (
	Prev Rotation = -1
	Cur  Rotation = 0
	Next Rotation = 1
)

// Query identifies a single cell read by a gate: a column at a relative
// row offset. Columns are referenced by their global registry index.
type Query struct {
	Column   int
	Rotation Rotation
}

func (q Query) HashCode() uint64 {
	x := uint64(q.Column) * 998244353
	x ^= uint64(int64(q.Rotation)) * 1000000007
	return x
}

// cmp returns -1, 0 or 1 comparing by (Column, Rotation).
func (q Query) cmp(o Query) int {
	if q.Column != o.Column {
		if q.Column < o.Column {
			return -1
		}
		return 1
	}
	if q.Rotation != o.Rotation {
		if q.Rotation < o.Rotation {
			return -1
		}
		return 1
	}
	return 0
}
