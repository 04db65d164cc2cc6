package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// MissingSentinel is the out-of-domain value that stands in for a missing
// cell while a table is cast. Any cell whose converted value equals it is
// reported as missing.
const MissingSentinel = -99999999

// ConvertTable returns a copy of t with every cell cast to typ. Missing
// cells stay missing. TypeUnset returns an unmodified copy.
func ConvertTable(t *models.Table, typ CellType) (*models.Table, error) {
	out := t.Clone()
	if typ == TypeUnset {
		return out, nil
	}
	for i, row := range out.Rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cv, ok := convertValue(v, typ)
			if !ok {
				return nil, &ConversionError{Row: i, Column: out.Columns[j], Value: v, Type: typ}
			}
			if isSentinel(cv) {
				cv = nil
			}
			row[j] = cv
		}
	}
	return out, nil
}

func convertValue(v any, typ CellType) (any, bool) {
	switch typ {
	case TypeString:
		return models.FormatValue(v), true
	case TypeAuto:
		if s, ok := v.(string); ok {
			return parseValue(strings.TrimSpace(s)), true
		}
		return v, true
	case TypeFloat:
		if f, ok := models.ToFloat(v); ok {
			return f, true
		}
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return f, err == nil
		}
	case TypeInt:
		switch x := v.(type) {
		case int64:
			return x, true
		case float64:
			return integral(x)
		case string:
			s := strings.TrimSpace(x)
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i, true
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return integral(f)
			}
		}
	}
	return nil, false
}

func integral(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

func isSentinel(v any) bool {
	switch x := v.(type) {
	case int64:
		return x == MissingSentinel
	case float64:
		return x == MissingSentinel || math.IsNaN(x)
	}
	return false
}
