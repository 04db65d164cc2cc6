package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// DemoSheet is a small .DP master sheet with three tagged regions:
// <demo> (3 rows x 2 columns), <years> (2 rows over 1970-1972) and
// <broken>, which has no closing marker. Its widest line pads the sheet to
// eight columns, leaving five data columns under each tag.
const DemoSheet = `<General 3>,,,
,Version,,5.7
<End>,,,
<demo>,,,
,Demo table,,
,,,1,10
,,,2,20
,,,3,30
<End>,,,
<years>,,,
,Year table,,
,,,5,6,7,,
,,,-99999999,8,9
<End>,,,
<broken>,,,
,Broken table,,
,,,1,2
`

// WritePJNZ writes a zip archive named name into dir with the given
// members and returns its path.
func WritePJNZ(t testing.TB, dir, name string, members map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer out.Close()

	names := make([]string, 0, len(members))
	for n := range members {
		names = append(names, n)
	}
	sort.Strings(names)

	zw := zip.NewWriter(out)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatalf("create member %s: %v", n, err)
		}
		if _, err := w.Write([]byte(members[n])); err != nil {
			t.Fatalf("write member %s: %v", n, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}

// WriteDemoPJNZ writes an archive holding DemoSheet as its .DP member.
func WriteDemoPJNZ(t testing.TB, dir, name string) string {
	t.Helper()
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return WritePJNZ(t, dir, name, map[string]string{
		stem + ".DP":  DemoSheet,
		stem + ".PJN": "<Projection>\n",
	})
}
