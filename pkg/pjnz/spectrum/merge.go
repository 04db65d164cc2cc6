package spectrum

import (
	"fmt"
	"sort"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// MergeFunc assembles an indicator table from several sources in place
// of the generic Build.
type MergeFunc func(f *pjnz.File, schema *Schema) (*models.Table, error)

// MergeANCPrevalence names the antenatal clinic prevalence merge.
const MergeANCPrevalence = "anc_prevalence"

var merges = map[string]MergeFunc{
	MergeANCPrevalence: mergeANCPrevalence,
}

// RegisterMerge makes a merge strategy available to indicators by name.
func RegisterMerge(name string, fn MergeFunc) {
	merges[name] = fn
}

// MergeNames returns the registered merge strategies.
func MergeNames() []string {
	names := make([]string, 0, len(merges))
	for n := range merges {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ancSeries pairs each ANC model series with its Type label.
var ancSeries = []struct {
	table string
	label string
}{
	{pjnz.ANCPrevalence, "ANC-SS (%)"},
	{pjnz.ANCCount, "ANC-SS (N)"},
	{pjnz.ANCRTPrevalence, "ANC-RT (%)"},
	{pjnz.ANCRTCount, "ANC-RT (N)"},
}

// mergeANCPrevalence stacks the sentinel-surveillance and routine-testing
// series of every region into one long table. Rows carry their series in
// Type, their region in Region and their clinic in Site.
func mergeANCPrevalence(f *pjnz.File, schema *Schema) (*models.Table, error) {
	var parts []*models.Table
	for _, s := range ancSeries {
		t, err := f.ModelData(s.table)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		part := t.Clone()
		if err := part.SetColumn("Type", models.Fill(s.label, part.NumRows())); err != nil {
			return nil, fmt.Errorf("%s: %w", s.table, err)
		}
		parts = append(parts, part)
	}

	merged := models.Concat(parts...)
	if merged == nil {
		f.Logger().Warn("no ANC series in model data")
		return models.NewTable(schema.FieldNames()...), nil
	}

	if regions, ok := merged.Column(pjnz.GroupColumn); ok {
		merged = merged.DropColumns(pjnz.GroupColumn)
		if err := merged.SetColumn("Region", regions); err != nil {
			return nil, err
		}
	}
	if err := merged.SetColumn("Site", append([]any(nil), merged.Index...)); err != nil {
		return nil, err
	}
	merged.Name = MergeANCPrevalence
	return merged, nil
}
