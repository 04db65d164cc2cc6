package spectrum

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
	"github.com/montanaflynn/stats"
)

// Descriptor operations.
const (
	OpDP        = "dp"
	OpModel     = "model"
	OpYears     = "years"
	OpValues    = "values"
	OpSum       = "sum"
	OpScale     = "scale"
	OpStat      = "stat"
	OpTransform = "transform"
	OpNow       = "now"
)

// Expr is a structured extraction descriptor. It selects a series from
// the archive or derives one from other descriptors.
//
//	{"op": "dp", "tag": "HAARTBySex MV", "type": "int", "row": 0}
//	{"op": "model", "table": "anc.prev", "labels": "index"}
//	{"op": "sum", "args": [{"op": "dp", "tag": "X", "row": 0}, {"op": "dp", "tag": "X", "row": 1}]}
type Expr struct {
	Op string `json:"op" yaml:"op"`

	// dp
	Tag     string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`

	// model
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	Group string `json:"group,omitempty" yaml:"group,omitempty"`

	// selectors for dp and model
	Row    *int   `json:"row,omitempty" yaml:"row,omitempty"`
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
	Labels string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Reduce string `json:"reduce,omitempty" yaml:"reduce,omitempty"`
	Rows   []int  `json:"rows,omitempty" yaml:"rows,omitempty"`

	// years
	From int `json:"from,omitempty" yaml:"from,omitempty"`
	To   int `json:"to,omitempty" yaml:"to,omitempty"`

	// values
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// sum, scale, stat, transform
	Args   []*Expr  `json:"args,omitempty" yaml:"args,omitempty"`
	Fn     string   `json:"fn,omitempty" yaml:"fn,omitempty"`
	Factor *float64 `json:"factor,omitempty" yaml:"factor,omitempty"`
	Digits int      `json:"digits,omitempty" yaml:"digits,omitempty"`

	// now
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Env is what descriptors are evaluated against.
type Env struct {
	File *pjnz.File
	Now  func() time.Time
}

// Validate checks that the descriptor and its arguments are well formed.
func (e *Expr) Validate() error {
	switch e.Op {
	case OpDP:
		if e.Tag == "" {
			return invalid(e, "tag is required")
		}
		if _, err := parser.ParseCellType(e.Type); err != nil {
			return invalid(e, err.Error())
		}
		return e.validateSelector()
	case OpModel:
		if !isModelTable(e.Table) {
			return invalid(e, fmt.Sprintf("unknown model table %q", e.Table))
		}
		return e.validateSelector()
	case OpYears:
		if e.From != 0 && e.To != 0 && e.From > e.To {
			return invalid(e, "from is after to")
		}
		return nil
	case OpValues, OpNow:
		return nil
	case OpSum:
		if len(e.Args) == 0 {
			return invalid(e, "needs at least one argument")
		}
	case OpScale:
		if len(e.Args) != 1 || e.Factor == nil {
			return invalid(e, "needs one argument and a factor")
		}
	case OpStat:
		if len(e.Args) != 1 {
			return invalid(e, "needs one argument")
		}
		switch e.Fn {
		case "mean", "median", "min", "max", "sum":
		default:
			return invalid(e, fmt.Sprintf("unknown stat %q", e.Fn))
		}
	case OpTransform:
		if len(e.Args) != 1 {
			return invalid(e, "needs one argument")
		}
		switch e.Fn {
		case "round", "negative_to_missing", "string":
		default:
			return invalid(e, fmt.Sprintf("unknown transform %q", e.Fn))
		}
	default:
		return invalid(e, fmt.Sprintf("unknown op %q", e.Op))
	}
	for _, a := range e.Args {
		if a == nil {
			return invalid(e, "nil argument")
		}
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Expr) validateSelector() error {
	n := 0
	if e.Row != nil {
		n++
	}
	if e.Column != "" {
		n++
	}
	if e.Labels != "" {
		if e.Labels != "index" && e.Labels != "columns" {
			return invalid(e, fmt.Sprintf("labels must be index or columns, got %q", e.Labels))
		}
		n++
	}
	if e.Reduce != "" {
		if e.Reduce != "sum" && e.Reduce != "mean" {
			return invalid(e, fmt.Sprintf("reduce must be sum or mean, got %q", e.Reduce))
		}
		n++
	}
	if n != 1 {
		return invalid(e, "exactly one of row, column, labels or reduce is required")
	}
	return nil
}

func invalid(e *Expr, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidExpr, e.Op, msg)
}

func isModelTable(name string) bool {
	for _, s := range append(append([]string(nil), pjnz.DataSeries...), pjnz.SubpopSeries...) {
		if s == name {
			return true
		}
	}
	return false
}

func (e *Expr) normalize() {
	for i, v := range e.Values {
		e.Values[i] = normalizeValue(v)
	}
	for _, a := range e.Args {
		if a != nil {
			a.normalize()
		}
	}
}

// Eval evaluates the descriptor to a series.
func (e *Expr) Eval(env *Env) ([]any, error) {
	switch e.Op {
	case OpDP:
		typ, err := parser.ParseCellType(e.Type)
		if err != nil {
			return nil, err
		}
		t, err := env.File.DP(e.Tag, typ, e.Columns)
		if err != nil {
			return nil, err
		}
		return e.selectFrom(t)
	case OpModel:
		t, err := env.File.ModelData(e.Table)
		if err != nil {
			return nil, err
		}
		if t != nil && e.Group != "" {
			t = filterGroup(t, e.Group)
		}
		return e.selectFrom(t)
	case OpYears:
		var out []any
		for _, y := range env.File.Years() {
			n, _ := strconv.Atoi(y)
			if (e.From != 0 && n < e.From) || (e.To != 0 && n > e.To) {
				continue
			}
			out = append(out, y)
		}
		return out, nil
	case OpValues:
		return append([]any(nil), e.Values...), nil
	case OpNow:
		layout := e.Format
		if layout == "" {
			layout = "2006"
		}
		now := time.Now
		if env.Now != nil {
			now = env.Now
		}
		return []any{now().Format(layout)}, nil
	}

	args := make([][]any, len(e.Args))
	for i, a := range e.Args {
		v, err := a.Eval(env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch e.Op {
	case OpSum:
		return sumSeries(args)
	case OpScale:
		return mapNumeric(args[0], func(x float64) any { return x * *e.Factor })
	case OpStat:
		return statSeries(e.Fn, args[0])
	case OpTransform:
		switch e.Fn {
		case "round":
			p := math.Pow(10, float64(e.Digits))
			return mapNumeric(args[0], func(x float64) any { return math.Round(x*p) / p })
		case "negative_to_missing":
			return mapNumeric(args[0], func(x float64) any {
				if x < 0 {
					return nil
				}
				return x
			})
		case "string":
			out := make([]any, len(args[0]))
			for i, v := range args[0] {
				if v != nil {
					out[i] = models.FormatValue(v)
				}
			}
			return out, nil
		}
	}
	return nil, invalid(e, "cannot evaluate")
}

func (e *Expr) selectFrom(t *models.Table) ([]any, error) {
	if t == nil {
		return nil, nil
	}
	switch {
	case e.Row != nil:
		if *e.Row < 0 || *e.Row >= t.NumRows() {
			return nil, fmt.Errorf("row %d out of range, %s has %d rows", *e.Row, t.Tag, t.NumRows())
		}
		return t.Row(*e.Row), nil
	case e.Column != "":
		col, ok := t.Column(e.Column)
		if !ok {
			return nil, fmt.Errorf("column %q not in %s", e.Column, t.Tag)
		}
		return col, nil
	case e.Labels == "index":
		return append([]any(nil), t.Index...), nil
	case e.Labels == "columns":
		out := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			out[i] = c
		}
		return out, nil
	case e.Reduce != "":
		return reduceRows(t, e.Rows, e.Reduce)
	}
	return nil, invalid(e, "no selector")
}

func filterGroup(t *models.Table, group string) *models.Table {
	idx := t.ColumnIndex(pjnz.GroupColumn)
	out := models.NewTable(t.Columns...)
	out.Name, out.Tag = t.Name, t.Tag
	for i, row := range t.Rows {
		if idx >= 0 && row[idx] == group {
			out.AppendRow(t.Index[i], row)
		}
	}
	return out.DropColumns(pjnz.GroupColumn)
}

// reduceRows combines the selected rows (all rows when rows is empty)
// column by column. Missing cells are skipped; a column with no values
// reduces to missing.
func reduceRows(t *models.Table, rows []int, fn string) ([]any, error) {
	if len(rows) == 0 {
		rows = make([]int, t.NumRows())
		for i := range rows {
			rows[i] = i
		}
	}
	out := make([]any, t.NumCols())
	for j := range t.Columns {
		sum, n := 0.0, 0
		for _, i := range rows {
			if i < 0 || i >= t.NumRows() {
				return nil, fmt.Errorf("row %d out of range, %s has %d rows", i, t.Tag, t.NumRows())
			}
			v := t.Rows[i][j]
			if v == nil {
				continue
			}
			f, ok := models.ToFloat(v)
			if !ok {
				return nil, fmt.Errorf("non-numeric cell %v in column %q", v, t.Columns[j])
			}
			sum += f
			n++
		}
		switch {
		case n == 0:
			out[j] = nil
		case fn == "mean":
			out[j] = sum / float64(n)
		default:
			out[j] = sum
		}
	}
	return out, nil
}

// sumSeries adds series element-wise. A position missing in any series
// is missing in the result; int64 is kept when every operand is int64.
func sumSeries(series [][]any) ([]any, error) {
	n := 0
	for _, s := range series {
		if len(s) > n {
			n = len(s)
		}
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		var fsum float64
		var isum int64
		allInt, missing := true, false
		for _, s := range series {
			if i >= len(s) || s[i] == nil {
				missing = true
				break
			}
			switch x := s[i].(type) {
			case int64:
				isum += x
				fsum += float64(x)
			case float64:
				allInt = false
				fsum += x
			default:
				return nil, fmt.Errorf("non-numeric value %v", s[i])
			}
		}
		switch {
		case missing:
			out[i] = nil
		case allInt:
			out[i] = isum
		default:
			out[i] = fsum
		}
	}
	return out, nil
}

func mapNumeric(series []any, fn func(float64) any) ([]any, error) {
	out := make([]any, len(series))
	for i, v := range series {
		if v == nil {
			continue
		}
		f, ok := models.ToFloat(v)
		if !ok {
			return nil, fmt.Errorf("non-numeric value %v", v)
		}
		out[i] = fn(f)
	}
	return out, nil
}

func statSeries(fn string, series []any) ([]any, error) {
	var data stats.Float64Data
	for _, v := range series {
		if f, ok := models.ToFloat(v); ok {
			data = append(data, f)
		}
	}
	if len(data) == 0 {
		return []any{nil}, nil
	}

	var (
		v   float64
		err error
	)
	switch fn {
	case "mean":
		v, err = data.Mean()
	case "median":
		v, err = data.Median()
	case "min":
		v, err = data.Min()
	case "max":
		v, err = data.Max()
	case "sum":
		v, err = data.Sum()
	default:
		return nil, fmt.Errorf("unknown stat %q", fn)
	}
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}
