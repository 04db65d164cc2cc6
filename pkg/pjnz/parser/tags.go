package parser

import (
	"fmt"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

const (
	// EndMarker closes every tagged region.
	EndMarker = "<End>"
	// DropColumn labels a column that is removed after labelling.
	DropColumn = "Drop"
	// dataColumnOffset is the number of leading bookkeeping columns in a tagged region.
	dataColumnOffset = 3
)

// Marker returns the sheet marker for a tag name.
func Marker(tag string) string {
	return "<" + tag + ">"
}

// LocateTag finds the row holding the <tag> marker and the first <End>
// row after it, both searched in column 0.
func LocateTag(sheet *models.Table, tag string) (start, end int, err error) {
	marker := Marker(tag)
	start = -1
	for i, row := range sheet.Rows {
		if len(row) > 0 && models.FormatValue(row[0]) == marker {
			start = i
			break
		}
	}
	if start < 0 {
		return -1, -1, fmt.Errorf("%w: %s", ErrTagNotFound, marker)
	}
	for i := start + 1; i < len(sheet.Rows); i++ {
		if len(sheet.Rows[i]) > 0 && models.FormatValue(sheet.Rows[i][0]) == EndMarker {
			return start, i, nil
		}
	}
	return start, -1, fmt.Errorf("%w: %s", ErrUnterminatedTag, marker)
}

// SliceTagged cuts the region of tag out of sheet.
//
// Data rows run from two rows below the marker up to the closing <End>
// row; data columns start at column 3. Only the first len(columns) data
// columns are kept and labelled with columns, after which columns
// labelled "Drop" are removed. Row labels are carried over from the
// sheet. The table is named after the cell in column 1 of the row
// following the marker.
func SliceTagged(sheet *models.Table, tag string, columns []string) (*models.Table, error) {
	start, end, err := LocateTag(sheet, tag)
	if err != nil {
		return nil, err
	}

	available := sheet.NumCols() - dataColumnOffset
	if available < 0 {
		available = 0
	}
	if len(columns) > available {
		return nil, fmt.Errorf("%w: %s has %d data columns, %d labels given",
			ErrColumnCount, Marker(tag), available, len(columns))
	}

	table := models.NewTable(columns...)
	table.Tag = Marker(tag)
	if start+1 < len(sheet.Rows) && sheet.NumCols() > 1 {
		table.Name = models.FormatValue(sheet.Rows[start+1][1])
	}

	for i := start + 2; i < end; i++ {
		row := sheet.Rows[i][dataColumnOffset : dataColumnOffset+len(columns)]
		table.AppendRow(sheet.Index[i], row)
	}

	for _, c := range columns {
		if c == DropColumn {
			return table.DropColumns(DropColumn), nil
		}
	}
	return table, nil
}
