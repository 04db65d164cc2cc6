package parser

import (
	"fmt"
	"strings"
)

// CellType is the target type of a sheet or sub-table conversion.
type CellType int

const (
	// TypeUnset means no conversion was requested.
	TypeUnset CellType = iota
	// TypeAuto infers int64, float64 or string per cell.
	TypeAuto
	// TypeString keeps cells as text.
	TypeString
	// TypeInt converts cells to int64.
	TypeInt
	// TypeFloat converts cells to float64.
	TypeFloat
)

func (t CellType) String() string {
	switch t {
	case TypeAuto:
		return "auto"
	case TypeString:
		return "str"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	}
	return ""
}

// ParseCellType maps a type name to a CellType. The empty name is TypeUnset.
func ParseCellType(s string) (CellType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TypeUnset, nil
	case "auto":
		return TypeAuto, nil
	case "str", "string", "text":
		return TypeString, nil
	case "int", "integer":
		return TypeInt, nil
	case "float", "number", "numeric":
		return TypeFloat, nil
	}
	return TypeUnset, fmt.Errorf("unknown cell type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t CellType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CellType) UnmarshalText(b []byte) error {
	v, err := ParseCellType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
