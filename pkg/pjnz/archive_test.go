package pjnz

import (
	"errors"
	"testing"

	"github.com/fjelltopp/pjnz-go/internal/testutil"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDemo(t *testing.T, opts Options) *File {
	t.Helper()
	path := testutil.WriteDemoPJNZ(t, t.TempDir(), "Malawi_2019_v22.PJNZ")
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	f, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestOpen(t *testing.T) {
	f := openDemo(t, Options{})

	assert.Equal(t, "Malawi_2019_v22", f.Stem())
	assert.Equal(t, "Malawi", f.Country())
	assert.Len(t, f.Years(), DefaultLastYear-DefaultFirstYear+1)
	assert.Equal(t, "1970", f.Years()[0])

	sheet, ok := f.MasterSheet()
	require.True(t, ok)
	assert.Equal(t, 17, sheet.NumRows())
	// The widest line (",,,5,6,7,," under <years>) sets the width.
	assert.Equal(t, 8, sheet.NumCols())
	assert.Equal(t, "<demo>", sheet.Rows[3][0])
}

func TestOpenCountryOverride(t *testing.T) {
	f := openDemo(t, Options{Country: "MWI"})
	assert.Equal(t, "MWI", f.Country())
}

func TestOpenMissingMember(t *testing.T) {
	path := testutil.WritePJNZ(t, t.TempDir(), "Kenya_2020.PJNZ", map[string]string{
		"Other.DP": "<End>\n",
	})

	_, err := Open(path, Options{Logger: testutil.NewTestLogger(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMemberNotFound))

	var memberErr *MemberNotFoundError
	require.ErrorAs(t, err, &memberErr)
	assert.Equal(t, "Kenya_2020.DP", memberErr.Member)
}

func TestOpenExtraSuffix(t *testing.T) {
	f := openDemo(t, Options{Suffixes: map[string]parser.ParseOptions{
		".DP":  {Type: parser.TypeString},
		".PJN": {Type: parser.TypeAuto},
	}})

	pjn, ok := f.Sheet("Malawi_2019_v22.PJN")
	require.True(t, ok)
	assert.Equal(t, "<Projection>", pjn.Rows[0][0])
}

func TestOpenNotAnArchive(t *testing.T) {
	_, err := Open("testdata/does-not-exist.PJNZ", DefaultOptions())
	assert.Error(t, err)
}

func TestCloseTwice(t *testing.T) {
	f := openDemo(t, Options{})
	require.NoError(t, f.Close())
	assert.NoError(t, f.Close())
}
