package specio

import (
	"fmt"
	"strconv"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/tidwall/gjson"
)

// DecodeData decodes the output of the script in data mode:
//
//	{"groups": [{"name": "Urban", "series": {"anc.prev": <matrix>, ...}}]}
func DecodeData(data []byte) (*pjnz.EPPData, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}

	out := &pjnz.EPPData{}
	for _, g := range root.Get("groups").Array() {
		group := pjnz.GroupData{
			Name:   g.Get("name").String(),
			Series: make(map[string]*models.Table),
		}
		series := g.Get("series")
		if series.IsObject() {
			var decodeErr error
			series.ForEach(func(key, value gjson.Result) bool {
				t, err := decodeMatrix(value)
				if err != nil {
					decodeErr = fmt.Errorf("group %s: %s: %w", group.Name, key.String(), err)
					return false
				}
				if t != nil {
					t.Name = key.String()
					group.Series[key.String()] = t
				}
				return true
			})
			if decodeErr != nil {
				return nil, decodeErr
			}
		}
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}

// DecodeSubpops decodes the output of the script in subpops mode:
//
//	{"epidemic_type": "concentrated", "groups": [{"name": "FSW",
//	 "population": <matrix>, "has_duration": true, "duration": 5}]}
func DecodeSubpops(data []byte) (*pjnz.Subpops, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}

	out := &pjnz.Subpops{EpidemicType: root.Get("epidemic_type").String()}
	for _, g := range root.Get("groups").Array() {
		group := pjnz.SubpopGroup{
			Name:        g.Get("name").String(),
			HasDuration: g.Get("has_duration").Bool(),
		}
		pop, err := decodeMatrix(g.Get("population"))
		if err != nil {
			return nil, fmt.Errorf("group %s: population: %w", group.Name, err)
		}
		group.Population = pop
		if d := g.Get("duration"); d.Type == gjson.Number {
			v := d.Float()
			group.Duration = &v
		}
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}

func parse(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: not a JSON document", ErrInvalidOutput)
	}
	root := gjson.ParseBytes(data)
	if groups := root.Get("groups"); groups.Exists() && !groups.IsArray() {
		return gjson.Result{}, fmt.Errorf("%w: groups is not a list", ErrInvalidOutput)
	}
	return root, nil
}

// decodeMatrix decodes {"rownames", "colnames", "data"} with row-major
// data. Absent names default to positions; null cells are missing.
func decodeMatrix(v gjson.Result) (*models.Table, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: matrix is not an object", ErrInvalidOutput)
	}

	rownames := stringList(v.Get("rownames"))
	colnames := stringList(v.Get("colnames"))
	rows := v.Get("data").Array()

	width := len(colnames)
	for _, r := range rows {
		if n := len(r.Array()); n > width {
			width = n
		}
	}
	for j := len(colnames); j < width; j++ {
		colnames = append(colnames, strconv.Itoa(j+1))
	}

	t := models.NewTable(colnames...)
	for i, r := range rows {
		cells := r.Array()
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = cellValue(c)
		}
		label := strconv.Itoa(i + 1)
		if i < len(rownames) {
			label = rownames[i]
		}
		t.AppendRow(label, values)
	}
	return t, nil
}

func cellValue(c gjson.Result) any {
	switch c.Type {
	case gjson.Number:
		return c.Float()
	case gjson.String:
		return c.String()
	case gjson.True:
		return 1.0
	case gjson.False:
		return 0.0
	}
	return nil
}

// stringList reads a list of labels. jsonlite unboxes a single label to
// a bare string.
func stringList(v gjson.Result) []string {
	switch {
	case v.IsArray():
		var out []string
		for _, s := range v.Array() {
			out = append(out, s.String())
		}
		return out
	case v.Type == gjson.String:
		return []string{v.String()}
	}
	return nil
}
