package spectrum

import (
	"testing"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indicatorSheet carries one small region per built-in indicator over
// the years 1970 to 1972.
const indicatorSheet = `<ANCTestingValues MV>,,,
,ANC testing,,
,,,100,200,
,,,,,
<End>,,,
<InfantFeedingOptions MV>,,,
,Feeding options,,
,,,0.5,0.25,0.1
,,,0.3,0.2,0.1
,,,0.2,0.55,0.8
<End>,,,
<ARVRegimen MV2>,,,
,ARV regimen,,
,,,x,1,2,3
,,,y,4,5,6
<End>,,,
<HAARTBySex MV>,,,
,On ART by sex,,
,,,100,110,120
,,,200,210,-99999999
<End>,,,
<FitIncidence MV6>,,,
,Fit incidence,,
,,,1,2,3
<End>,,,
<VrialSuppressionInput MV>,,,
,Viral suppression,,
,,,10,20,30
<End>,,,
`

func buildIndicator(t *testing.T, name, schemaDoc string, svc pjnz.ModelDataService) (*pjnz.File, [][]any, []string) {
	t.Helper()
	f := openSheet(t, indicatorSheet, svc)
	r := DefaultRegistry()
	r.Now = fixedClock
	table, err := r.Build(name, f, mustSchema(t, schemaDoc))
	require.NoError(t, err)
	assert.Equal(t, name, table.Name)
	return f, table.Rows, table.Columns
}

func TestIndicatorANCTesting(t *testing.T) {
	_, rows, columns := buildIndicator(t, "anc_testing", `{"fields": [
		{"name": "Indicator"},
		{"name": "Tested", "spectrum_file_key": {"op": "dp", "tag": "ANCTestingValues MV", "row": 0}},
		{"name": "Positive", "spectrum_file_key": {"op": "dp", "tag": "ANCTestingValues MV", "row": 1}}
	]}`, nil)

	assert.Equal(t, []string{"Indicator", "1970", "1971"}, columns)
	assert.Equal(t, [][]any{
		{"Tested", int64(100), int64(200)},
		{"Positive", nil, nil},
	}, rows)
}

func TestIndicatorBreastfeeding(t *testing.T) {
	_, rows, columns := buildIndicator(t, "breastfeeding", `{"fields": [
		{"name": "Option", "example_values": ["Exclusive", "Mixed", "Replacement"]},
		{"name": "Month 0", "spectrum_file_key": {"op": "dp", "tag": "InfantFeedingOptions MV", "column": "1970"}},
		{"name": "Month 6", "spectrum_file_key": {"op": "dp", "tag": "InfantFeedingOptions MV", "column": "1972"}}
	]}`, nil)

	assert.Equal(t, []string{"Option", "Month 0", "Month 6"}, columns)
	assert.Equal(t, [][]any{
		{"Exclusive", 0.5, 0.1},
		{"Mixed", 0.3, 0.1},
		{"Replacement", 0.2, 0.8},
	}, rows)
}

func TestIndicatorPMTCT(t *testing.T) {
	f, rows, columns := buildIndicator(t, "pmtct", `{"fields": [
		{"name": "Regimen", "example_values": [1971, 1972]},
		{"name": "Option A", "spectrum_file_key": {"op": "dp", "tag": "ARVRegimen MV2", "row": 0}},
		{"name": "Option B", "spectrum_file_key": {"op": "dp", "tag": "ARVRegimen MV2", "row": 1}}
	]}`, nil)

	assert.Equal(t, []string{"Regimen", "1971", "1972"}, columns)
	assert.Equal(t, [][]any{
		{"Option A", int64(2), int64(3)},
		{"Option B", int64(5), int64(6)},
	}, rows)

	d, ok := f.Directive("ARVRegimen MV2")
	require.True(t, ok)
	assert.Equal(t, parser.TypeInt, d.Type)
	assert.Equal(t, []string{parser.DropColumn, "1970", "1971", "1972"}, d.Columns)
}

func TestIndicatorART(t *testing.T) {
	f, rows, columns := buildIndicator(t, "art", `{"fields": [
		{"name": "Indicator"},
		{"name": "Men", "spectrum_file_key": {"op": "dp", "tag": "HAARTBySex MV", "row": 0}},
		{"name": "Women", "spectrum_file_key": {"op": "dp", "tag": "HAARTBySex MV", "row": 1}},
		{"name": "Total", "spectrum_file_key": {"op": "sum", "args": [
			{"op": "dp", "tag": "HAARTBySex MV", "row": 0},
			{"op": "dp", "tag": "HAARTBySex MV", "row": 1}]}},
		{"name": "Children"}
	]}`, nil)

	assert.Equal(t, []string{"Indicator", "1970", "1971", "1972"}, columns)
	assert.Equal(t, [][]any{
		{"Men", int64(100), int64(110), int64(120)},
		{"Women", int64(200), int64(210), nil},
		{"Total", int64(300), int64(320), nil},
		{"Children", nil, nil, nil},
	}, rows)

	d, ok := f.Directive("MedianCD4 MV")
	require.True(t, ok)
	assert.Equal(t, parser.TypeFloat, d.Type)
}

func TestIndicatorCaseMortalityAndKnownStatus(t *testing.T) {
	_, rows, _ := buildIndicator(t, "case_mortality", `{"fields": [
		{"name": "Indicator"},
		{"name": "Fit", "spectrum_file_key": {"op": "dp", "tag": "FitIncidence MV6", "row": 0}}
	]}`, nil)
	assert.Equal(t, [][]any{{"Fit", int64(1), int64(2), int64(3)}}, rows)

	_, rows, _ = buildIndicator(t, "known_status", `{"fields": [
		{"name": "Indicator"},
		{"name": "Suppressed", "spectrum_file_key": {"op": "dp", "tag": "VrialSuppressionInput MV", "row": 0}},
		{"name": "Year of data", "spectrum_file_key": {"op": "now"}}
	]}`, nil)
	assert.Equal(t, [][]any{
		{"Suppressed", int64(10), int64(20), int64(30)},
		{"Year of data", "2024", nil, nil},
	}, rows)
}

func TestIndicatorANCPrevalence(t *testing.T) {
	_, rows, columns := buildIndicator(t, "anc_prevalence", ancPrevSchema, ancService())

	assert.Equal(t, []string{"Site", "Region", "Type", "2000", "2001"}, columns)
	assert.Equal(t, [][]any{
		{"Site A", "Rural", "ANC-SS (%)", 0.2, 0.3},
		{"Site A", "Rural", "ANC-RT (%)", 0.25, nil},
		{"Site B", "Urban", "ANC-SS (%)", 0.1, nil},
		{"Site B", "Urban", "ANC-SS (N)", 100.0, 120.0},
	}, rows)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{
		"anc_testing", "breastfeeding", "pmtct", "art",
		"case_mortality", "known_status", "anc_prevalence",
	}, r.Names())

	ind, ok := r.Get("art")
	require.True(t, ok)
	assert.Equal(t, "spectrum_art.json", ind.Schema)
	assert.Len(t, ind.Directives, 12)

	_, ok = r.Get("nope")
	assert.False(t, ok)

	_, err := r.Build("nope", openDemo(t, nil), mustSchema(t, `{"fields": [{"name": "k"}]}`))
	assert.ErrorIs(t, err, ErrUnknownIndicator)
}

func TestDefaultIndicatorsValidate(t *testing.T) {
	for _, ind := range DefaultIndicators() {
		assert.NoError(t, ind.Validate(), ind.Name)
	}
	assert.NotPanics(t, func() { DefaultRegistry() })
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Indicator{Name: "demo", Layout: Layout{Orient: OrientColumns}}))
	require.NoError(t, r.Register(Indicator{Name: "other"}))
	require.NoError(t, r.Register(Indicator{Name: "demo", Description: "replaced"}))
	assert.Equal(t, []string{"demo", "other"}, r.Names())
	ind, _ := r.Get("demo")
	assert.Equal(t, "replaced", ind.Description)

	assert.Error(t, r.Register(Indicator{}))
	assert.Error(t, r.Register(Indicator{Name: "x", Merge: "nope"}))
	assert.Error(t, r.Register(Indicator{Name: "x", Layout: Layout{Orient: "diagonal"}}))
	assert.Error(t, r.Register(Indicator{Name: "x", Steps: []Step{{Kind: StepSortRows}}}))
}

func TestCustomIndicator(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Indicator{
		Name:       "demo",
		Directives: map[string]pjnz.Directive{"demo": {Type: parser.TypeInt, Columns: []string{"a", "b"}}},
		Layout:     Layout{Orient: OrientIndex, Columns: []string{"a", "b"}},
		Steps:      []Step{{Kind: StepSortRows, By: []string{"a"}}},
	}))

	table, err := r.Build("demo", openDemo(t, nil), mustSchema(t, `{"fields": [
		{"name": "Row"},
		{"name": "last", "spectrum_file_key": {"op": "dp", "tag": "demo", "row": 2}},
		{"name": "first", "spectrum_file_key": {"op": "dp", "tag": "demo", "row": 0}}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Row", "a", "b"}, table.Columns)
	assert.Equal(t, [][]any{
		{"first", int64(1), int64(10)},
		{"last", int64(3), int64(30)},
	}, table.Rows)
}
