package specio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataJSON = `{"groups": [
  {"name": "Urban", "series": {
    "anc.prev": {"rownames": ["Site A", "Site B"], "colnames": ["2000", "2001"], "data": [[0.1, null], [0.2, 0.3]]},
    "anc.n": {"rownames": "Site A", "colnames": ["2000", "2001"], "data": [[120, 130]]}
  }},
  {"name": "Rural", "series": []},
  {"name": "Coast", "series": {"hhs": {"rownames": null, "colnames": ["year", "prev"], "data": [[2005, 0.12], [2010, 0.1, 7]]}}}
]}`

const subpopsJSON = `{"epidemic_type": "concentrated", "groups": [
  {"name": "FSW", "population": {"rownames": null, "colnames": ["year", "pop15to49"], "data": [[1970, 1000]]}, "has_duration": true, "duration": 5},
  {"name": "MSM", "population": null, "has_duration": true, "duration": null},
  {"name": "Remaining", "population": {"rownames": null, "colnames": "pop15to49", "data": [[9000]]}, "has_duration": false, "duration": null}
]}`

func TestDecodeData(t *testing.T) {
	data, err := DecodeData([]byte(dataJSON))
	require.NoError(t, err)
	require.Len(t, data.Groups, 3)

	urban := data.Groups[0]
	assert.Equal(t, "Urban", urban.Name)
	prev := urban.Series["anc.prev"]
	require.NotNil(t, prev)
	assert.Equal(t, "anc.prev", prev.Name)
	assert.Equal(t, []string{"2000", "2001"}, prev.Columns)
	assert.Equal(t, []any{"Site A", "Site B"}, prev.Index)
	assert.Equal(t, [][]any{{0.1, nil}, {0.2, 0.3}}, prev.Rows)

	count := urban.Series["anc.n"]
	require.NotNil(t, count)
	assert.Equal(t, []any{"Site A"}, count.Index)
	assert.Equal(t, [][]any{{120.0, 130.0}}, count.Rows)

	assert.Equal(t, "Rural", data.Groups[1].Name)
	assert.Empty(t, data.Groups[1].Series)

	hhs := data.Groups[2].Series["hhs"]
	require.NotNil(t, hhs)
	assert.Equal(t, []string{"year", "prev", "3"}, hhs.Columns)
	assert.Equal(t, []any{"1", "2"}, hhs.Index)
	assert.Equal(t, [][]any{{2005.0, 0.12, nil}, {2010.0, 0.1, 7.0}}, hhs.Rows)
}

func TestDecodeSubpops(t *testing.T) {
	sp, err := DecodeSubpops([]byte(subpopsJSON))
	require.NoError(t, err)

	assert.Equal(t, "concentrated", sp.EpidemicType)
	require.Len(t, sp.Groups, 3)

	fsw := sp.Groups[0]
	require.NotNil(t, fsw.Population)
	assert.Equal(t, [][]any{{1970.0, 1000.0}}, fsw.Population.Rows)
	require.NotNil(t, fsw.Duration)
	assert.Equal(t, 5.0, *fsw.Duration)
	assert.True(t, fsw.HasDuration)

	msm := sp.Groups[1]
	assert.Nil(t, msm.Population)
	assert.Nil(t, msm.Duration)
	assert.True(t, msm.HasDuration)

	rest := sp.Groups[2]
	assert.Equal(t, []string{"pop15to49"}, rest.Population.Columns)
	assert.False(t, rest.HasDuration)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "Error in library(specio)"},
		{name: "groups not a list", doc: `{"groups": {"name": "x"}}`},
		{name: "matrix not an object", doc: `{"groups": [{"name": "x", "series": {"anc.prev": [1, 2]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeData([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}

	_, err := DecodeSubpops([]byte(`{"groups": [{"name": "x", "population": "oops"}]}`))
	assert.ErrorIs(t, err, ErrInvalidOutput)
}
