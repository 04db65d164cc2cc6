package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteXLSX writes a workbook with one sheet per table, named after the
// map keys in sorted order. Each sheet starts with a header row of
// column labels; missing cells are left blank. Names that collide once
// made sheet-safe get a "~2", "~3", ... suffix.
func WriteXLSX(path string, tables map[string]*models.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to write")
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(names))
	for i, name := range names {
		sheet := uniqueSheetName(SheetName(name), used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, tables[name]); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, t *models.Table) error {
	header := make([]interface{}, len(t.Columns))
	for j, c := range t.Columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SheetName makes name usable as a worksheet name: characters Excel
// rejects become underscores and the result is cut to 31 characters.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		name = "Sheet"
	}
	return name
}

// uniqueSheetName returns sheet, or sheet with a numeric suffix when the
// name is already taken. Excel compares sheet names case-insensitively.
func uniqueSheetName(sheet string, used map[string]bool) string {
	name := sheet
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		base := []rune(sheet)
		if keep := maxSheetName - len(suffix); len(base) > keep {
			base = base[:keep]
		}
		name = string(base) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
