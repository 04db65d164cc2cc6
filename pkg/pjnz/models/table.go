// Package models defines the tabular data structures shared by the PJNZ
// extraction packages.
package models

// Table is a rectangular grid of cell values with column and row labels.
//
// A cell is nil (missing), string, int64 or float64. Every row in Rows has
// exactly len(Columns) cells and Index has one label per row.
type Table struct {
	// Name is the display name of the table, if any.
	Name string `json:"name,omitempty"`
	// Tag is the sheet marker the table was extracted from (e.g. "<FitIncidence MV6>").
	Tag string `json:"tag,omitempty"`
	// Columns holds the column labels.
	Columns []string `json:"columns"`
	// Index holds the row labels.
	Index []any `json:"index"`
	// Rows holds the cell values, row-major.
	Rows [][]any `json:"rows"`
}

// NewTable returns an empty table with the given column labels.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnIndex returns the position of the first column labelled label, or -1.
func (t *Table) ColumnIndex(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values in the column labelled label.
func (t *Table) Column(label string) ([]any, bool) {
	idx := t.ColumnIndex(label)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	return append([]any(nil), t.Rows[i]...)
}

// AppendRow adds a row, padding or truncating values to the column count.
func (t *Table) AppendRow(label any, values []any) {
	row := make([]any, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	t.Index = append(t.Index, label)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Name:    t.Name,
		Tag:     t.Tag,
		Columns: append([]string(nil), t.Columns...),
		Index:   append([]any(nil), t.Index...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}

// Equal reports whether two tables have the same labels and cells.
// Name and Tag are ignored.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) || len(t.Index) != len(o.Index) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Index {
		if t.Index[i] != o.Index[i] {
			return false
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i] {
			if t.Rows[i][j] != o.Rows[i][j] {
				return false
			}
		}
	}
	return true
}
