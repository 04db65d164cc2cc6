package output

import (
	"strconv"
	"testing"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/xuri/excelize/v2"
)

// readXLSX reads a workbook written by WriteXLSX back into tables keyed
// by sheet name. Numeric text becomes int64 or float64 and blank cells
// are missing.
func readXLSX(t *testing.T, path string) map[string]*models.Table {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	tables := make(map[string]*models.Table)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			t.Fatalf("sheet %s: %v", sheet, err)
		}
		tb := models.NewTable()
		tb.Name = sheet
		if len(rows) > 0 {
			tb.Columns = append(tb.Columns, rows[0]...)
		}
		for i, row := range rows[min(1, len(rows)):] {
			values := make([]any, len(row))
			for j, s := range row {
				values[j] = cellValue(s)
			}
			tb.AppendRow(i, values)
		}
		tables[sheet] = tb
	}
	return tables
}

func cellValue(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
