package pjnz

import (
	"archive/zip"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
)

// File is an opened PJNZ archive together with the tables extracted from it.
//
// The members named by Options.Suffixes are parsed when the archive is
// opened. Tagged sub-tables and model data are extracted on demand and
// cached for the lifetime of the File. A File is not safe for concurrent
// use.
type File struct {
	path    string
	stem    string
	country string
	years   []string
	logger  *slog.Logger

	zr     *zip.ReadCloser
	sheets map[string]*models.Table

	dp      map[string]*dpEntry
	extract func(tag string, typ parser.CellType, columns []string) (*models.Table, error)

	service      ModelDataService
	modelCache   map[string]*models.Table
	epidemicType string
}

// Open opens the archive at path and parses its sheet members.
// The caller must Close the returned File.
func Open(path string, opts Options) (*File, error) {
	opts = opts.withDefaults()

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	base := filepath.Base(path)
	f := &File{
		path:       path,
		stem:       strings.TrimSuffix(base, filepath.Ext(base)),
		country:    opts.Country,
		logger:     opts.Logger.With("archive", base),
		zr:         zr,
		sheets:     make(map[string]*models.Table),
		dp:         make(map[string]*dpEntry),
		service:    opts.ModelData,
		modelCache: make(map[string]*models.Table),
	}
	if f.country == "" {
		f.country = strings.SplitN(base, "_", 2)[0]
	}
	for y := opts.FirstYear; y <= opts.LastYear; y++ {
		f.years = append(f.years, strconv.Itoa(y))
	}
	f.extract = f.ExtractDP

	if err := f.extractMembers(opts.Suffixes); err != nil {
		zr.Close()
		return nil, err
	}
	return f, nil
}

func (f *File) extractMembers(suffixes map[string]parser.ParseOptions) error {
	keys := make([]string, 0, len(suffixes))
	for suffix := range suffixes {
		keys = append(keys, suffix)
	}
	sort.Strings(keys)

	for _, suffix := range keys {
		name := f.stem + suffix
		member := f.member(name)
		if member == nil {
			err := &MemberNotFoundError{Archive: filepath.Base(f.path), Member: name}
			f.logger.Error("archive member missing", "member", name)
			return err
		}

		rc, err := member.Open()
		if err != nil {
			return fmt.Errorf("open member %s: %w", name, err)
		}
		table, err := parser.ParseSheet(rc, suffixes[suffix])
		rc.Close()
		if err != nil {
			return fmt.Errorf("parse member %s: %w", name, err)
		}
		table.Name = name
		f.sheets[name] = table
		f.logger.Debug("member parsed", "member", name, "rows", table.NumRows(), "cols", table.NumCols())
	}
	return nil
}

func (f *File) member(name string) *zip.File {
	for _, zf := range f.zr.File {
		if zf.Name == name {
			return zf
		}
	}
	return nil
}

// Close releases the archive. It is safe to call more than once.
func (f *File) Close() error {
	if f.zr == nil {
		return nil
	}
	err := f.zr.Close()
	f.zr = nil
	return err
}

// Path returns the archive path.
func (f *File) Path() string { return f.path }

// Stem returns the archive file name without directory or extension.
func (f *File) Stem() string { return f.stem }

// Country returns the country label of the archive.
func (f *File) Country() string { return f.country }

// Years returns the default column labels of tagged sub-tables.
func (f *File) Years() []string {
	return append([]string(nil), f.years...)
}

// Sheet returns the parsed member with the given file name.
func (f *File) Sheet(member string) (*models.Table, bool) {
	t, ok := f.sheets[member]
	return t, ok
}

// MasterSheet returns the parsed .DP member.
func (f *File) MasterSheet() (*models.Table, bool) {
	return f.Sheet(f.stem + DPSuffix)
}

// Logger returns the logger of the file.
func (f *File) Logger() *slog.Logger { return f.logger }
