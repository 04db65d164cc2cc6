// Package spectrum assembles publishable indicator tables from PJNZ
// archives. A schema lists the output fields and, per field, a
// descriptor of where its values come from; an indicator binds a schema
// to the directives, layout and post-processing it needs.
package spectrum

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is an ordered list of output fields. The first field is the key:
// it labels the rows of the output table.
type Schema struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field describes one output column.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Source says how the values of the field are extracted. Fields
	// without a source are left missing.
	Source        *Expr `json:"spectrum_file_key,omitempty" yaml:"spectrum_file_key,omitempty"`
	ExampleValues []any `json:"example_values,omitempty" yaml:"example_values,omitempty"`
}

// LoadSchema reads a schema document. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	s, err := ParseSchema(data, format)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = filepath.Base(path)
		}
		return nil, err
	}
	return s, nil
}

// ParseSchema decodes and validates a schema document in the given
// format ("json" or "yaml").
func ParseSchema(data []byte, format string) (*Schema, error) {
	var s Schema
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, &SchemaError{Source: format, Err: err}
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&s); err != nil {
			return nil, &SchemaError{Source: format, Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = format
		}
		return nil, err
	}
	return &s, nil
}

// Validate checks field names and descriptors.
func (s *Schema) Validate() error {
	if len(s.Fields) == 0 {
		return &SchemaError{Err: errors.New("schema has no fields")}
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return &SchemaError{Err: errors.New("field without a name")}
		}
		if seen[f.Name] {
			return &SchemaError{Field: f.Name, Err: errors.New("duplicate field name")}
		}
		seen[f.Name] = true
		if f.Source != nil {
			if err := f.Source.Validate(); err != nil {
				return &SchemaError{Field: f.Name, Err: err}
			}
		}
	}
	return nil
}

// Key returns the key field.
func (s *Schema) Key() Field {
	return s.Fields[0]
}

// FieldNames returns the names of all fields, key first.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Clone returns a copy of the schema whose field list can be modified
// without affecting s.
func (s *Schema) Clone() *Schema {
	out := *s
	out.Fields = append([]Field(nil), s.Fields...)
	return &out
}

func (s *Schema) normalize() {
	for i := range s.Fields {
		f := &s.Fields[i]
		for j, v := range f.ExampleValues {
			f.ExampleValues[j] = normalizeValue(v)
		}
		if f.Source != nil {
			f.Source.normalize()
		}
	}
}

// normalizeValue maps decoded document values onto cell types.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case bool:
		return x
	}
	return v
}
