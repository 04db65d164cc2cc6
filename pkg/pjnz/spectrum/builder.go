package spectrum

import (
	"fmt"
	"time"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// Orient says how field series are laid out in the built table.
type Orient string

const (
	// OrientColumns makes every field a column.
	OrientColumns Orient = "columns"
	// OrientIndex makes every field a row labelled with the field name.
	OrientIndex Orient = "index"
)

// BuildOptions controls the layout of a built table.
type BuildOptions struct {
	// Orient defaults to OrientColumns.
	Orient Orient
	// Columns labels the columns of an OrientIndex table. Defaults to
	// the years of the file.
	Columns []string
	// Index replaces the row labels.
	Index []any
	// Now is the clock seen by "now" descriptors. Defaults to time.Now.
	Now func() time.Time
}

// Build assembles the table described by schema from f.
//
// The key field is set aside and every other field with a source is
// evaluated. Fields without a source, and sources that yield nothing,
// become missing values as long as the longest series. The row labels
// come from opts.Index or, failing that, from the key field's source;
// they are inserted as the first column, named after the key field.
func Build(f *pjnz.File, schema *Schema, opts BuildOptions) (*models.Table, error) {
	s := schema.Clone()
	key := s.Fields[0]
	fields := s.Fields[1:]

	env := &Env{File: f, Now: opts.Now}
	logger := f.Logger()

	series := make([][]any, len(fields))
	n := 0
	for i, field := range fields {
		if field.Source == nil {
			continue
		}
		values, err := field.Source.Eval(env)
		if err != nil {
			logger.Error("failed to evaluate field source", "field", field.Name, "op", field.Source.Op, "error", err)
			return nil, &TableBuildError{Field: field.Name, Op: field.Source.Op, Err: err}
		}
		series[i] = values
		if len(values) > n {
			n = len(values)
		}
	}

	var table *models.Table
	switch opts.Orient {
	case OrientIndex:
		columns := opts.Columns
		if columns == nil {
			columns = f.Years()
		}
		table = models.NewTable(columns...)
		for i, field := range fields {
			if len(series[i]) > len(columns) {
				err := fmt.Errorf("%d values for %d columns", len(series[i]), len(columns))
				logger.Error("field does not fit the table columns", "field", field.Name, "error", err)
				return nil, &TableBuildError{Field: field.Name, Err: err}
			}
			table.AppendRow(field.Name, series[i])
		}
	case OrientColumns, "":
		table = models.NewTable()
		for r := 0; r < n; r++ {
			table.AppendRow(r, nil)
		}
		for i, field := range fields {
			col := make([]any, n)
			copy(col, series[i])
			if err := table.SetColumn(field.Name, col); err != nil {
				return nil, &TableBuildError{Field: field.Name, Err: err}
			}
		}
	default:
		return nil, &TableBuildError{Field: key.Name, Err: fmt.Errorf("unknown orient %q", opts.Orient)}
	}

	index := opts.Index
	if index == nil && key.Source != nil {
		labels, err := key.Source.Eval(env)
		if err != nil {
			logger.Error("failed to evaluate key source", "field", key.Name, "op", key.Source.Op, "error", err)
			return nil, &TableBuildError{Field: key.Name, Op: key.Source.Op, Err: err}
		}
		index = labels
	}
	if index != nil {
		if len(index) != table.NumRows() {
			err := fmt.Errorf("%d row labels for %d rows", len(index), table.NumRows())
			logger.Error("row labels do not fit the table", "field", key.Name, "error", err)
			return nil, &TableBuildError{Field: key.Name, Err: err}
		}
		table.Index = append([]any(nil), index...)
	}

	if err := table.InsertColumn(0, key.Name, append([]any(nil), table.Index...)); err != nil {
		return nil, &TableBuildError{Field: key.Name, Err: err}
	}
	return table, nil
}
