package pjnz

import (
	"errors"
	"testing"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countExtractions wraps the extraction routine of f and returns a
// pointer to the number of calls it has received.
func countExtractions(f *File) *int {
	calls := 0
	inner := f.extract
	f.extract = func(tag string, typ parser.CellType, columns []string) (*models.Table, error) {
		calls++
		return inner(tag, typ, columns)
	}
	return &calls
}

func TestExtractDP(t *testing.T) {
	f := openDemo(t, Options{})

	table, err := f.ExtractDP("demo", parser.TypeInt, []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, "Demo table", table.Name)
	assert.Equal(t, "<demo>", table.Tag)
	assert.Equal(t, []string{"A", "B"}, table.Columns)
	assert.Equal(t, []any{5, 6, 7}, table.Index)
	assert.Equal(t, [][]any{{int64(1), int64(10)}, {int64(2), int64(20)}, {int64(3), int64(30)}}, table.Rows)
}

func TestExtractDPMissingValues(t *testing.T) {
	f := openDemo(t, Options{FirstYear: 1970, LastYear: 1972})

	table, err := f.ExtractDP("years", parser.TypeFloat, f.Years())
	require.NoError(t, err)

	assert.Equal(t, []string{"1970", "1971", "1972"}, table.Columns)
	assert.Equal(t, []any{5.0, 6.0, 7.0}, table.Rows[0])
	assert.Equal(t, []any{nil, 8.0, 9.0}, table.Rows[1])
}

func TestExtractDPErrors(t *testing.T) {
	f := openDemo(t, Options{})

	_, err := f.ExtractDP("nope", parser.TypeFloat, []string{"A"})
	assert.True(t, errors.Is(err, ErrTagNotFound))

	_, err = f.ExtractDP("broken", parser.TypeFloat, []string{"A"})
	assert.True(t, errors.Is(err, ErrUnterminatedTag))

	empty, err := f.ExtractDP("General 3", parser.TypeFloat, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumRows())
	assert.Equal(t, "Version", empty.Name)

	var extErr *ExtractionError
	// <demo> has five data columns once the sheet is padded to its widest line.
	_, err = f.ExtractDP("demo", parser.TypeFloat, []string{"A", "B", "C", "D", "E"})
	require.NoError(t, err)
	_, err = f.ExtractDP("demo", parser.TypeFloat, []string{"A", "B", "C", "D", "E", "F"})
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "demo", extErr.Tag)
	assert.True(t, errors.Is(err, ErrColumnCount))
}

func TestExtractDPConversionError(t *testing.T) {
	f := openDemo(t, Options{})
	f.sheets[f.stem+DPSuffix].Rows[5][3] = "one"

	_, err := f.ExtractDP("demo", parser.TypeInt, []string{"A", "B"})
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "convert", extErr.Component)
	assert.True(t, errors.Is(err, ErrTypeConversion))

	// The handle stays usable after a failed request.
	_, err = f.ExtractDP("demo", parser.TypeString, []string{"A", "B"})
	assert.NoError(t, err)
}

func TestExtractDPWithoutSheet(t *testing.T) {
	f := openDemo(t, Options{})
	delete(f.sheets, f.stem+DPSuffix)

	_, err := f.DP("demo", parser.TypeInt, []string{"A", "B"})
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestDPCachesExtraction(t *testing.T) {
	f := openDemo(t, Options{})
	calls := countExtractions(f)

	first, err := f.DP("demo", parser.TypeInt, []string{"A", "B"})
	require.NoError(t, err)
	second, err := f.DP("demo", parser.TypeUnset, nil)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, *calls)

	d, ok := f.Directive("demo")
	require.True(t, ok)
	assert.Equal(t, parser.TypeInt, d.Type)
	assert.Equal(t, []string{"A", "B"}, d.Columns)
}

func TestDPUsesDirectives(t *testing.T) {
	f := openDemo(t, Options{})
	f.Configure(map[string]Directive{
		"demo": {Type: parser.TypeInt, Columns: []string{"Drop", "B"}},
	})

	table, err := f.DP("demo", parser.TypeUnset, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, table.Columns)
	assert.Equal(t, int64(10), table.Rows[0][0])
}

func TestDPDefaultsToFloatYears(t *testing.T) {
	f := openDemo(t, Options{FirstYear: 1970, LastYear: 1972})

	table, err := f.DP("years", parser.TypeUnset, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1970", "1971", "1972"}, table.Columns)
	assert.Equal(t, 8.0, table.Rows[1][1])
}

func TestConfigureKeepsUnchangedDirectives(t *testing.T) {
	f := openDemo(t, Options{})
	calls := countExtractions(f)

	f.Configure(map[string]Directive{"demo": {Type: parser.TypeInt, Columns: []string{"A", "B"}}})
	_, err := f.DP("demo", parser.TypeUnset, nil)
	require.NoError(t, err)

	// Same directive, or one that leaves fields zero, keeps the cached table.
	f.Configure(map[string]Directive{"demo": {Type: parser.TypeInt}})
	f.Configure(map[string]Directive{"other": {Type: parser.TypeFloat}})
	_, err = f.DP("demo", parser.TypeUnset, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	d, _ := f.Directive("demo")
	assert.Equal(t, []string{"A", "B"}, d.Columns)

	// A changed type invalidates it.
	f.Configure(map[string]Directive{"demo": {Type: parser.TypeFloat}})
	table, err := f.DP("demo", parser.TypeUnset, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, 1.0, table.Rows[0][0])
}

func TestClearCache(t *testing.T) {
	f := openDemo(t, Options{})
	calls := countExtractions(f)

	_, err := f.DP("demo", parser.TypeInt, []string{"A", "B"})
	require.NoError(t, err)
	f.ClearCache()
	_, err = f.DP("demo", parser.TypeUnset, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}
