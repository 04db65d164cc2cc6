package spectrum

import (
	"testing"
	"time"

	"github.com/fjelltopp/pjnz-go/internal/testutil"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	data    *pjnz.EPPData
	subpops *pjnz.Subpops
	err     error
}

func (s *fakeService) ReadData(string) (*pjnz.EPPData, error) {
	return s.data, s.err
}

func (s *fakeService) ReadSubpops(string) (*pjnz.Subpops, error) {
	return s.subpops, s.err
}

// openDemo opens the demo archive with the years 1970 to 1972.
func openDemo(t *testing.T, svc pjnz.ModelDataService) *pjnz.File {
	t.Helper()
	path := testutil.WriteDemoPJNZ(t, t.TempDir(), "Malawi_2019_v22.PJNZ")
	f, err := pjnz.Open(path, pjnz.Options{
		FirstYear: 1970,
		LastYear:  1972,
		ModelData: svc,
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func openSheet(t *testing.T, sheet string, svc pjnz.ModelDataService) *pjnz.File {
	t.Helper()
	path := testutil.WritePJNZ(t, t.TempDir(), "Malawi_2019_v22.PJNZ", map[string]string{
		"Malawi_2019_v22.DP": sheet,
	})
	f, err := pjnz.Open(path, pjnz.Options{
		FirstYear: 1970,
		LastYear:  1972,
		ModelData: svc,
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func mustSchema(t *testing.T, doc string) *Schema {
	t.Helper()
	s, err := ParseSchema([]byte(doc), "json")
	require.NoError(t, err)
	return s
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func siteSeries(years []string, rows map[string][]any, order ...string) *models.Table {
	t := models.NewTable(years...)
	for _, site := range order {
		t.AppendRow(site, rows[site])
	}
	return t
}

func intp(i int) *int { return &i }
