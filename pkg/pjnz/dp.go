package pjnz

import (
	"slices"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
)

// Directive tells the file how to read the sub-table under a tag.
// Zero fields fall back to earlier directives or to the defaults.
type Directive struct {
	Type    parser.CellType `json:"type,omitempty" yaml:"type,omitempty" koanf:"type"`
	Columns []string        `json:"columns,omitempty" yaml:"columns,omitempty" koanf:"columns"`
}

type dpEntry struct {
	Directive
	data *models.Table
}

// Configure installs directives. Tags not mentioned keep their directives,
// and fields left zero keep their previous values. A cached sub-table is
// dropped when its type or columns change.
func (f *File) Configure(directives map[string]Directive) {
	for tag, d := range directives {
		e := f.entry(tag)
		changed := false
		if d.Type != parser.TypeUnset && d.Type != e.Type {
			e.Type = d.Type
			changed = true
		}
		if d.Columns != nil && !slices.Equal(d.Columns, e.Columns) {
			e.Columns = append([]string(nil), d.Columns...)
			changed = true
		}
		if changed && e.data != nil {
			f.logger.Debug("directive changed, dropping cached sub-table", "tag", tag)
			e.data = nil
		}
	}
}

// Directive returns the directive currently recorded for tag.
func (f *File) Directive(tag string) (Directive, bool) {
	e, ok := f.dp[tag]
	if !ok {
		return Directive{}, false
	}
	return Directive{Type: e.Type, Columns: append([]string(nil), e.Columns...)}, true
}

// ClearCache drops every cached sub-table. Directives are kept.
func (f *File) ClearCache() {
	for _, e := range f.dp {
		e.data = nil
	}
}

func (f *File) entry(tag string) *dpEntry {
	e, ok := f.dp[tag]
	if !ok {
		e = &dpEntry{}
		f.dp[tag] = e
	}
	return e
}

// DP returns the sub-table under tag, extracting it on first use.
//
// A zero typ or nil columns falls back to the directive for tag, then to
// float cells labelled with Years. The resolved type and columns are
// recorded as the tag's directive. The returned table is shared with the
// cache and must not be modified.
func (f *File) DP(tag string, typ parser.CellType, columns []string) (*models.Table, error) {
	e := f.entry(tag)
	if typ == parser.TypeUnset {
		typ = e.Type
	}
	if typ == parser.TypeUnset {
		typ = parser.TypeFloat
	}
	if columns == nil {
		columns = e.Columns
	}
	if columns == nil {
		columns = f.years
	}

	if e.data != nil {
		return e.data, nil
	}

	table, err := f.extract(tag, typ, columns)
	if err != nil {
		return nil, err
	}
	e.data = table
	e.Type = typ
	e.Columns = append([]string(nil), columns...)
	return table, nil
}

// ExtractDP slices the sub-table under tag out of the master sheet,
// labels its columns and casts its cells to typ. It does not use the cache.
func (f *File) ExtractDP(tag string, typ parser.CellType, columns []string) (*models.Table, error) {
	sheet, ok := f.MasterSheet()
	if !ok {
		f.logger.Error("DP sheet not found", "tag", tag)
		return nil, NewExtractionError(tag, "dp", ErrSheetNotFound)
	}

	table, err := parser.SliceTagged(sheet, tag, columns)
	if err != nil {
		f.logger.Error("cannot extract DP table", "tag", tag, "error", err)
		return nil, NewExtractionError(tag, "dp", err)
	}

	if typ != parser.TypeUnset {
		converted, err := parser.ConvertTable(table, typ)
		if err != nil {
			f.logger.Error("cannot convert DP table", "tag", tag, "type", typ.String(), "error", err)
			return nil, NewExtractionError(tag, "convert", err)
		}
		table = converted
	}

	f.logger.Debug("DP table extracted", "tag", tag, "name", table.Name, "rows", table.NumRows())
	return table, nil
}
