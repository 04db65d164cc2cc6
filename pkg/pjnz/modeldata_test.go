package pjnz

import (
	"errors"
	"testing"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	data        *EPPData
	subpops     *Subpops
	err         error
	dataCalls   int
	subpopCalls int
}

func (s *fakeService) ReadData(string) (*EPPData, error) {
	s.dataCalls++
	return s.data, s.err
}

func (s *fakeService) ReadSubpops(string) (*Subpops, error) {
	s.subpopCalls++
	return s.subpops, s.err
}

func series(sites []string, years []string, values ...[]any) *models.Table {
	t := models.NewTable(years...)
	for i, site := range sites {
		t.AppendRow(site, values[i])
	}
	return t
}

func TestModelDataMerge(t *testing.T) {
	svc := &fakeService{data: &EPPData{Groups: []GroupData{
		{Name: "Urban", Series: map[string]*models.Table{
			ANCPrevalence: series([]string{"Site A"}, []string{"2000", "2001"}, []any{int64(1), 0.5}),
		}},
		{Name: "Rural", Series: map[string]*models.Table{
			ANCPrevalence: series([]string{"Site B"}, []string{"2000", "2001"}, []any{0.25, nil}),
			ANCCount:      series([]string{"Site B"}, []string{"2000"}, []any{"120"}),
		}},
	}}}
	f := openDemo(t, Options{ModelData: svc})

	prev, err := f.ModelData(ANCPrevalence)
	require.NoError(t, err)
	assert.Equal(t, []string{"2000", "2001", GroupColumn}, prev.Columns)
	assert.Equal(t, []any{"Site A", "Site B"}, prev.Index)
	assert.Equal(t, []any{1.0, 0.5, "Urban"}, prev.Rows[0])
	assert.Equal(t, []any{0.25, nil, "Rural"}, prev.Rows[1])

	// Exactly one group reports anc.n: the result is that group's series.
	count, err := f.ModelData(ANCCount)
	require.NoError(t, err)
	require.Equal(t, 1, count.NumRows())
	assert.Equal(t, []any{120.0, "Rural"}, count.Rows[0])

	// No group reports hhs: cached nil.
	hhs, err := f.ModelData(HouseholdSurveys)
	require.NoError(t, err)
	assert.Nil(t, hhs)

	_, err = f.ModelData(HouseholdSurveys)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.dataCalls)
	assert.Equal(t, 0, svc.subpopCalls)
}

func TestModelDataSubpops(t *testing.T) {
	five := 5.0
	svc := &fakeService{subpops: &Subpops{
		EpidemicType: "concentrated",
		Groups: []SubpopGroup{
			{Name: "FSW", Population: series([]string{"1"}, []string{"pop15to49"}, []any{1000.0}), Duration: &five, HasDuration: true},
			{Name: "MSM", Population: series([]string{"1"}, []string{"pop15to49"}, []any{500.0}), HasDuration: true},
			{Name: "Remaining", Population: series([]string{"1"}, []string{"pop15to49"}, []any{9000.0})},
		},
	}}
	f := openDemo(t, Options{ModelData: svc})

	epidemic, err := f.EpidemicType()
	require.NoError(t, err)
	assert.Equal(t, "concentrated", epidemic)

	pops, err := f.ModelData(Subpopulations)
	require.NoError(t, err)
	assert.Equal(t, 3, pops.NumRows())
	col, _ := pops.Column(GroupColumn)
	assert.Equal(t, []any{"FSW", "MSM", "Remaining"}, col)

	turnover, err := f.ModelData(Turnover)
	require.NoError(t, err)
	assert.Equal(t, []string{"FSW", "MSM"}, turnover.Columns)
	assert.Equal(t, []any{DurationRowLabel}, turnover.Index)
	assert.Equal(t, []any{5.0, nil}, turnover.Rows[0])

	assert.Equal(t, 1, svc.subpopCalls)
}

func TestModelDataErrors(t *testing.T) {
	f := openDemo(t, Options{})
	_, err := f.ModelData(ANCPrevalence)
	assert.True(t, errors.Is(err, ErrNoModelDataService))

	svc := &fakeService{err: errors.New("Rscript exited with status 1")}
	f = openDemo(t, Options{ModelData: svc})

	_, err = f.ModelData("prevalence")
	assert.True(t, errors.Is(err, ErrUnknownModelTable))

	_, err = f.ModelData(ANCPrevalence)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "model", extErr.Component)

	// Failures are not cached.
	_, err = f.ModelData(ANCPrevalence)
	assert.Error(t, err)
	assert.Equal(t, 2, svc.dataCalls)
}
