package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is an immutable feature table handed to the model runtime. Cells are
// kept as text so imported files reach the runtime exactly as read; Matrix
// performs the numeric conversion.
type Table struct {
	columns []string
	cells   [][]string
}

// NewTable builds a table from encoded rows using the model column order.
func NewTable(rows ...Row) *Table {
	t := &Table{columns: Columns(), cells: make([][]string, len(rows))}
	for i, r := range rows {
		rec := make([]string, len(r.values))
		for j, v := range r.values {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		t.cells[i] = rec
	}
	return t
}

// newTableFromFrame copies a frame into a table.
func newTableFromFrame(f Frame) *Table {
	t := &Table{columns: make([]string, len(f.Header)), cells: make([][]string, len(f.Records))}
	copy(t.columns, f.Header)
	for i, rec := range f.Records {
		row := make([]string, len(rec))
		copy(row, rec)
		t.cells[i] = row
	}
	return t
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.cells)
}

// Cells returns a deep copy of the raw cell text.
func (t *Table) Cells() [][]string {
	out := make([][]string, len(t.cells))
	for i, rec := range t.cells {
		row := make([]string, len(rec))
		copy(row, rec)
		out[i] = row
	}
	return out
}

// Matrix converts every cell to a float64. It fails with ErrTable naming the
// first cell that is not a finite number or the first ragged row.
func (t *Table) Matrix() ([][]float64, error) {
	out := make([][]float64, len(t.cells))
	for i, rec := range t.cells {
		if len(rec) != len(t.columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrTable, i+1, len(rec), len(t.columns))
		}
		vals := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d column %q: %q is not a number", ErrTable, i+1, t.columns[j], cell)
			}
			vals[j] = v
		}
		out[i] = vals
	}
	return out, nil
}
