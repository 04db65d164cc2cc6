package output

import (
	"encoding/csv"
	"io"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// WriteCSV writes the column labels and then every row. Missing cells
// are written as empty fields.
func WriteCSV(w io.Writer, t *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j, v := range row {
			record[j] = models.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
