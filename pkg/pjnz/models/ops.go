package models

import (
	"fmt"
	"sort"
)

// InsertColumn inserts a column at position pos. values must have one
// entry per row.
func (t *Table) InsertColumn(pos int, label string, values []any) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", label, len(values), len(t.Rows))
	}
	if pos < 0 || pos > len(t.Columns) {
		return fmt.Errorf("column position %d out of range [0, %d]", pos, len(t.Columns))
	}
	t.Columns = append(t.Columns[:pos], append([]string{label}, t.Columns[pos:]...)...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:pos], append([]any{values[i]}, row[pos:]...)...)
	}
	return nil
}

// SetColumn replaces the values of the column labelled label, appending
// the column when it does not exist.
func (t *Table) SetColumn(label string, values []any) error {
	idx := t.ColumnIndex(label)
	if idx < 0 {
		return t.InsertColumn(len(t.Columns), label, values)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", label, len(values), len(t.Rows))
	}
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// Fill returns a slice of n copies of v.
func Fill(v any, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// DropColumns returns a copy of the table without the named columns.
// Every column carrying a dropped label is removed.
func (t *Table) DropColumns(labels ...string) *Table {
	drop := make(map[string]bool, len(labels))
	for _, l := range labels {
		drop[l] = true
	}
	var keep []int
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
		}
	}
	return t.project(keep)
}

// Select returns a copy of the table holding only the named columns, in
// the given order.
func (t *Table) Select(labels []string) (*Table, error) {
	keep := make([]int, 0, len(labels))
	for _, l := range labels {
		idx := t.ColumnIndex(l)
		if idx < 0 {
			return nil, fmt.Errorf("column %q not in table", l)
		}
		keep = append(keep, idx)
	}
	return t.project(keep), nil
}

// DropEmptyColumns returns a copy of the table without columns whose
// cells are all missing.
func (t *Table) DropEmptyColumns() *Table {
	var keep []int
	for j := range t.Columns {
		for _, row := range t.Rows {
			if row[j] != nil {
				keep = append(keep, j)
				break
			}
		}
	}
	return t.project(keep)
}

func (t *Table) project(cols []int) *Table {
	out := &Table{
		Name:    t.Name,
		Tag:     t.Tag,
		Columns: make([]string, len(cols)),
		Index:   append([]any(nil), t.Index...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for k, j := range cols {
		out.Columns[k] = t.Columns[j]
	}
	for i, row := range t.Rows {
		r := make([]any, len(cols))
		for k, j := range cols {
			r[k] = row[j]
		}
		out.Rows[i] = r
	}
	return out
}

// Concat stacks tables row-wise. The result has the union of all column
// labels in order of first appearance; cells absent from a source table
// are missing. Nil tables are skipped and Concat returns nil when no
// table remains.
func Concat(tables ...*Table) *Table {
	var out *Table
	for _, t := range tables {
		if t == nil {
			continue
		}
		if out == nil {
			out = &Table{Name: t.Name, Tag: t.Tag}
		}
		for _, c := range t.Columns {
			if out.ColumnIndex(c) < 0 {
				out.Columns = append(out.Columns, c)
				for i := range out.Rows {
					out.Rows[i] = append(out.Rows[i], nil)
				}
			}
		}
		pos := make([]int, len(t.Columns))
		for j, c := range t.Columns {
			pos[j] = out.ColumnIndex(c)
		}
		for i, row := range t.Rows {
			r := make([]any, len(out.Columns))
			for j, v := range row {
				r[pos[j]] = v
			}
			out.Rows = append(out.Rows, r)
			out.Index = append(out.Index, t.Index[i])
		}
	}
	return out
}

// SortBy returns a copy of the table with rows stably sorted by the named
// columns, ascending. Missing values sort last.
func (t *Table) SortBy(labels ...string) (*Table, error) {
	cols := make([]int, len(labels))
	for k, l := range labels {
		cols[k] = t.ColumnIndex(l)
		if cols[k] < 0 {
			return nil, fmt.Errorf("sort column %q not in table", l)
		}
	}
	out := t.Clone()
	order := make([]int, len(out.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := t.Rows[order[a]], t.Rows[order[b]]
		for _, j := range cols {
			if c := CompareValues(ra[j], rb[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	for i, src := range order {
		out.Rows[i] = append([]any(nil), t.Rows[src]...)
		out.Index[i] = t.Index[src]
	}
	return out, nil
}

// MapNumeric returns a copy of the table with every numeric cell replaced
// by fn(cell, value). Non-numeric and missing cells are left untouched.
func (t *Table) MapNumeric(fn func(v any, x float64) any) *Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for j, v := range row {
			if f, ok := ToFloat(v); ok {
				row[j] = fn(v, f)
			}
		}
	}
	return out
}
