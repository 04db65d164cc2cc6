package output

import (
	"encoding/json"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

type jsonTable struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ToJSON serializes a table as {"name", "columns", "rows"}. Missing
// cells become null. Row labels are left out: built tables carry them in
// their first column.
func ToJSON(t *models.Table, pretty bool) ([]byte, error) {
	doc := jsonTable{Name: t.Name, Columns: t.Columns, Rows: t.Rows}
	if doc.Columns == nil {
		doc.Columns = []string{}
	}
	if doc.Rows == nil {
		doc.Rows = [][]any{}
	}
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
