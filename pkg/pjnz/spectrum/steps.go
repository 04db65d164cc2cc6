package spectrum

import (
	"fmt"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// NegativeSentinelThreshold is the default bound below which numeric
// cells are treated as missing by the negative_to_missing step. Spectrum
// fills unreported surveillance values with large negative numbers.
const NegativeSentinelThreshold = 0.0

// StepKind names a post-processing step.
type StepKind string

// Post-processing steps.
const (
	StepDropEmptyColumns    StepKind = "drop_empty_columns"
	StepKeepKeyExamples     StepKind = "keep_key_examples"
	StepNegativeToMissing   StepKind = "negative_to_missing"
	StepSelectSchemaColumns StepKind = "select_schema_columns"
	StepSortRows            StepKind = "sort_rows"
)

// Step is one declarative post-processing operation on a built table.
type Step struct {
	Kind StepKind `koanf:"kind" yaml:"kind" json:"kind"`
	// By lists the sort columns of sort_rows.
	By []string `koanf:"by" yaml:"by,omitempty" json:"by,omitempty"`
	// Threshold overrides NegativeSentinelThreshold for negative_to_missing.
	Threshold *float64 `koanf:"threshold" yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Validate checks the step kind and its parameters.
func (s Step) Validate() error {
	switch s.Kind {
	case StepDropEmptyColumns, StepKeepKeyExamples, StepNegativeToMissing, StepSelectSchemaColumns:
		return nil
	case StepSortRows:
		if len(s.By) == 0 {
			return fmt.Errorf("step %s: no sort columns", s.Kind)
		}
		return nil
	}
	return fmt.Errorf("unknown step %q", s.Kind)
}

// Apply runs the step on t.
func (s Step) Apply(t *models.Table, schema *Schema) (*models.Table, error) {
	switch s.Kind {
	case StepDropEmptyColumns:
		return t.DropEmptyColumns(), nil

	case StepKeepKeyExamples:
		key := schema.Key()
		columns := []string{key.Name}
		for _, v := range key.ExampleValues {
			columns = append(columns, models.FormatValue(v))
		}
		return t.Select(columns)

	case StepNegativeToMissing:
		threshold := NegativeSentinelThreshold
		if s.Threshold != nil {
			threshold = *s.Threshold
		}
		return t.MapNumeric(func(v any, x float64) any {
			if x < threshold {
				return nil
			}
			return v
		}), nil

	case StepSelectSchemaColumns:
		return t.Select(schema.FieldNames())

	case StepSortRows:
		return t.SortBy(s.By...)
	}
	return nil, fmt.Errorf("unknown step %q", s.Kind)
}
