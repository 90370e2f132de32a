package layout

import (
	"fmt"

	"github.com/HawkeWei/halo2-examples/circuit"
	"github.com/HawkeWei/halo2-examples/field"
	"github.com/HawkeWei/halo2-examples/utils"
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"
)

// Witness is the filled table: one value per assigned (column, row) cell.
// It is built incrementally as regions commit and handed to the proving
// backend once synthesis finalizes.
type Witness struct {
	f       field.Field
	columns []circuit.Column
	rows    int

	values   [][]constraint.Element
	assigned []*bitset.BitSet
}

func newWitness(f field.Field, columns []circuit.Column, rows int) *Witness {
	return &Witness{
		f:        f,
		columns:  columns,
		rows:     rows,
		values:   make([][]constraint.Element, len(columns)),
		assigned: make([]*bitset.BitSet, len(columns)),
	}
}

// Rows returns the row budget the table was created with.
func (w *Witness) Rows() int {
	return w.rows
}

// At returns the value at (column index, row) and whether the cell was ever
// assigned. Out-of-range coordinates read as unassigned.
func (w *Witness) At(col, row int) (constraint.Element, bool) {
	if col < 0 || col >= len(w.columns) || row < 0 || row >= w.rows {
		return constraint.Element{}, false
	}
	if w.assigned[col] == nil || !w.assigned[col].Test(uint(row)) {
		return constraint.Element{}, false
	}
	return w.values[col][row], true
}

// set writes a value, tolerating identical rewrites. A differing rewrite is
// a DoubleAssignment; coordinates outside the table are a RowOverflow.
func (w *Witness) set(col, row int, v constraint.Element) error {
	if col < 0 || col >= len(w.columns) {
		return fmt.Errorf("%w: column %d not allocated", circuit.ErrInvalidExpression, col)
	}
	if row < 0 || row >= w.rows {
		return fmt.Errorf("%w: row %d outside budget of %d", circuit.ErrRowOverflow, row, w.rows)
	}
	if w.assigned[col] == nil {
		w.values[col] = make([]constraint.Element, w.rows)
		w.assigned[col] = bitset.New(uint(w.rows))
	}
	if w.assigned[col].Test(uint(row)) {
		if w.values[col][row] == v {
			return nil
		}
		return fmt.Errorf("%w: cell (%s %d, row %d)", circuit.ErrDoubleAssignment,
			w.columns[col].Kind, col, row)
	}
	w.values[col][row] = v
	w.assigned[col].Set(uint(row))
	return nil
}

// DeserializeWitness reconstructs a table from Serialize output. Column
// handles are rebuilt from the encoded kinds, in registry order.
func DeserializeWitness(f field.Field, data []byte) (*Witness, error) {
	in := utils.NewInputBuf(data)
	nbColumns := int(in.ReadUint32())
	rows := int(in.ReadUint32())
	columns := make([]circuit.Column, nbColumns)
	w := newWitness(f, columns, rows)
	words := (rows + 63) / 64
	for i := 0; i < nbColumns; i++ {
		columns[i] = circuit.Column{Index: i, Kind: circuit.ColumnKind(in.ReadUint8())}
		wordBuf := make([]uint64, words)
		for j := range wordBuf {
			wordBuf[j] = in.ReadUint64()
		}
		bits := bitset.From(wordBuf)
		for row := 0; row < rows; row++ {
			if !bits.Test(uint(row)) {
				continue
			}
			if err := w.set(i, row, f.FromInterface(in.ReadBigInt())); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}

// Serialize encodes the table deterministically: column count and row
// budget, then per column its kind, the assigned-row bitmap and the values
// of assigned rows in ascending row order. Two builds from identical
// synthesis call sequences produce identical bytes.
func (w *Witness) Serialize() []byte {
	o := &utils.OutputBuf{}
	o.AppendUint32(uint32(len(w.columns)))
	o.AppendUint32(uint32(w.rows))
	words := (w.rows + 63) / 64
	for i, col := range w.columns {
		o.AppendUint8(uint8(col.Kind))
		bits := w.assigned[i]
		if bits == nil {
			bits = bitset.New(uint(w.rows))
		}
		buf := bits.Bytes()
		for j := 0; j < words; j++ {
			if j < len(buf) {
				o.AppendUint64(buf[j])
			} else {
				o.AppendUint64(0)
			}
		}
		for row := 0; row < w.rows; row++ {
			if bits.Test(uint(row)) {
				o.AppendBigInt(w.f.ToBigInt(w.values[i][row]))
			}
		}
	}
	return o.Bytes()
}
