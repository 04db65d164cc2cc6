package spectrum

import (
	"fmt"
	"time"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
)

// YearsPlaceholder in a directive's columns expands to the years of the file.
const YearsPlaceholder = "$years"

// Layout is the table layout an indicator asks Build for.
type Layout struct {
	Orient Orient `koanf:"orient" yaml:"orient" json:"orient"`
	// Columns labels the columns of an index-oriented table. Defaults to
	// the years of the file.
	Columns []string `koanf:"columns" yaml:"columns,omitempty" json:"columns,omitempty"`
	// IndexFromKeyExamples labels the rows with the key field's example values.
	IndexFromKeyExamples bool `koanf:"index_from_key_examples" yaml:"index_from_key_examples,omitempty" json:"index_from_key_examples,omitempty"`
}

// Indicator describes how one published table is produced.
type Indicator struct {
	Name        string `koanf:"name" yaml:"name" json:"name"`
	Description string `koanf:"description" yaml:"description,omitempty" json:"description,omitempty"`
	// Schema is the file name of the indicator's schema document.
	Schema string `koanf:"schema" yaml:"schema" json:"schema"`
	// Directives are installed on the file before building.
	Directives map[string]pjnz.Directive `koanf:"directives" yaml:"directives,omitempty" json:"directives,omitempty"`
	Layout     Layout                    `koanf:"layout" yaml:"layout" json:"layout"`
	// Merge names a merge strategy that replaces the generic Build.
	Merge string `koanf:"merge" yaml:"merge,omitempty" json:"merge,omitempty"`
	Steps []Step `koanf:"steps" yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Validate checks the indicator's merge strategy, layout and steps.
func (ind *Indicator) Validate() error {
	if ind.Name == "" {
		return fmt.Errorf("indicator without a name")
	}
	if ind.Merge != "" {
		if _, ok := merges[ind.Merge]; !ok {
			return fmt.Errorf("indicator %s: unknown merge %q", ind.Name, ind.Merge)
		}
	}
	switch ind.Layout.Orient {
	case "", OrientColumns, OrientIndex:
	default:
		return fmt.Errorf("indicator %s: unknown orient %q", ind.Name, ind.Layout.Orient)
	}
	for _, s := range ind.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("indicator %s: %w", ind.Name, err)
		}
	}
	return nil
}

// Build produces the indicator table from f. now is the clock seen by
// "now" descriptors; nil means time.Now.
func (ind *Indicator) Build(f *pjnz.File, schema *Schema, now func() time.Time) (*models.Table, error) {
	f.Configure(ind.directives(f))

	var (
		table *models.Table
		err   error
	)
	if ind.Merge != "" {
		merge, ok := merges[ind.Merge]
		if !ok {
			return nil, fmt.Errorf("indicator %s: unknown merge %q", ind.Name, ind.Merge)
		}
		table, err = merge(f, schema)
	} else {
		opts := BuildOptions{
			Orient:  ind.Layout.Orient,
			Columns: ind.Layout.Columns,
			Now:     now,
		}
		if ind.Layout.IndexFromKeyExamples {
			opts.Index = append([]any(nil), schema.Key().ExampleValues...)
		}
		table, err = Build(f, schema, opts)
	}
	if err != nil {
		return nil, err
	}

	for _, step := range ind.Steps {
		table, err = step.Apply(table, schema)
		if err != nil {
			f.Logger().Error("post-processing failed", "indicator", ind.Name, "step", string(step.Kind), "error", err)
			return nil, fmt.Errorf("indicator %s: step %s: %w", ind.Name, step.Kind, err)
		}
	}
	table.Name = ind.Name
	return table, nil
}

func (ind *Indicator) directives(f *pjnz.File) map[string]pjnz.Directive {
	out := make(map[string]pjnz.Directive, len(ind.Directives))
	for tag, d := range ind.Directives {
		if d.Columns != nil {
			var cols []string
			for _, c := range d.Columns {
				if c == YearsPlaceholder {
					cols = append(cols, f.Years()...)
					continue
				}
				cols = append(cols, c)
			}
			d.Columns = cols
		}
		out[tag] = d
	}
	return out
}

// Registry holds the indicators available by name.
type Registry struct {
	// Now is passed to every indicator build. nil means time.Now.
	Now func() time.Time

	indicators map[string]*Indicator
	order      []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{indicators: make(map[string]*Indicator)}
}

// Register adds an indicator, replacing one with the same name.
func (r *Registry) Register(ind Indicator) error {
	if err := ind.Validate(); err != nil {
		return err
	}
	if _, ok := r.indicators[ind.Name]; !ok {
		r.order = append(r.order, ind.Name)
	}
	r.indicators[ind.Name] = &ind
	return nil
}

// Get returns the indicator registered under name.
func (r *Registry) Get(name string) (*Indicator, bool) {
	ind, ok := r.indicators[name]
	return ind, ok
}

// Names returns the registered indicator names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Build produces the named indicator's table from f.
func (r *Registry) Build(name string, f *pjnz.File, schema *Schema) (*models.Table, error) {
	ind, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndicator, name)
	}
	return ind.Build(f, schema, r.Now)
}

func typed(t parser.CellType) pjnz.Directive {
	return pjnz.Directive{Type: t}
}

// DefaultIndicators returns the built-in Spectrum indicators.
func DefaultIndicators() []Indicator {
	yearRows := Layout{Orient: OrientIndex}
	return []Indicator{
		{
			Name:        "anc_testing",
			Description: "Antenatal clinic HIV testing",
			Schema:      "spectrum_anc_test.json",
			Directives:  map[string]pjnz.Directive{"ANCTestingValues MV": typed(parser.TypeInt)},
			Layout:      yearRows,
			Steps:       []Step{{Kind: StepDropEmptyColumns}},
		},
		{
			Name:        "breastfeeding",
			Description: "Infant feeding options",
			Schema:      "spectrum_breastfeeding.json",
			Directives:  map[string]pjnz.Directive{"InfantFeedingOptions MV": typed(parser.TypeFloat)},
			Layout:      Layout{Orient: OrientColumns, IndexFromKeyExamples: true},
		},
		{
			Name:        "pmtct",
			Description: "Prevention of mother-to-child transmission regimens",
			Schema:      "spectrum_pmtct.json",
			Directives: map[string]pjnz.Directive{
				"ARVRegimen MV2": {Type: parser.TypeInt, Columns: []string{parser.DropColumn, YearsPlaceholder}},
			},
			Layout: yearRows,
			Steps:  []Step{{Kind: StepKeepKeyExamples}},
		},
		{
			Name:        "art",
			Description: "Adult and child antiretroviral therapy",
			Schema:      "spectrum_art.json",
			Directives: map[string]pjnz.Directive{
				"HAARTBySex MV":            typed(parser.TypeInt),
				"MedianCD4 MV":             typed(parser.TypeFloat),
				"PercLostFollowup MV":      typed(parser.TypeInt),
				"CD4ThreshHoldAdults MV":   typed(parser.TypeInt),
				"ChildARTCalc MV2":         typed(parser.TypeFloat),
				"ChildTreatInputs MV3":     typed(parser.TypeFloat),
				"PercLostFollowupChild MV": typed(parser.TypeInt),
				"CD4ThreshHold MV":         typed(parser.TypeInt),
				"ChildNeedPMTCT MV":        typed(parser.TypeFloat),
				"ChildOnPMTCT MV":          typed(parser.TypeInt),
				"NumNewARTPats MV":         typed(parser.TypeFloat),
				"MedCD4CountInit MV":       typed(parser.TypeInt),
			},
			Layout: yearRows,
		},
		{
			Name:        "case_mortality",
			Description: "Case surveillance and mortality fitting",
			Schema:      "spectrum_case_mortality.json",
			Directives:  map[string]pjnz.Directive{"FitIncidence MV6": typed(parser.TypeInt)},
			Layout:      yearRows,
		},
		{
			Name:        "known_status",
			Description: "Knowledge of status and viral suppression",
			Schema:      "spectrum_ks.json",
			Directives:  map[string]pjnz.Directive{"VrialSuppressionInput MV": typed(parser.TypeInt)},
			Layout:      yearRows,
		},
		{
			Name:        "anc_prevalence",
			Description: "Antenatal clinic prevalence by site",
			Schema:      "spectrum_anc_prev.json",
			Merge:       MergeANCPrevalence,
			Steps: []Step{
				{Kind: StepNegativeToMissing},
				{Kind: StepSelectSchemaColumns},
				{Kind: StepSortRows, By: []string{"Site", "Region"}},
			},
		},
	}
}

// DefaultRegistry returns a registry holding DefaultIndicators. It panics
// only if a built-in indicator fails Validate, which is a programming
// error in DefaultIndicators and never depends on input.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, ind := range DefaultIndicators() {
		if err := r.Register(ind); err != nil {
			panic(err)
		}
	}
	return r
}
