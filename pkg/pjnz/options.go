// Package pjnz opens Spectrum PJNZ archives and extracts the tables they
// hold: tagged sub-tables of the .DP master sheet and the EPP model data
// parsed by an external service.
package pjnz

import (
	"log/slog"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
)

// DPSuffix is the member suffix of the master sheet.
const DPSuffix = ".DP"

const (
	// DefaultFirstYear is the first year column of a Spectrum projection.
	DefaultFirstYear = 1970
	// DefaultLastYear is the last year column of a Spectrum projection.
	DefaultLastYear = 2025
)

// Options configures how an archive is opened.
type Options struct {
	// Suffixes maps member suffixes to the parse options of that member.
	// Members are named <stem><suffix>. If nil, only the .DP sheet is read,
	// as text.
	Suffixes map[string]parser.ParseOptions
	// Country overrides the country derived from the file name.
	Country string
	// FirstYear and LastYear bound the default column labels of sub-tables.
	FirstYear int
	LastYear  int
	// ModelData parses the embedded EPP model. Optional.
	ModelData ModelDataService
	// Logger receives extraction errors. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns default open options.
func DefaultOptions() Options {
	return Options{
		Suffixes:  DefaultSuffixes(),
		FirstYear: DefaultFirstYear,
		LastYear:  DefaultLastYear,
	}
}

// DefaultSuffixes returns the members read by default.
func DefaultSuffixes() map[string]parser.ParseOptions {
	return map[string]parser.ParseOptions{
		DPSuffix: {Type: parser.TypeString},
	}
}

func (o Options) withDefaults() Options {
	if o.Suffixes == nil {
		o.Suffixes = DefaultSuffixes()
	}
	if o.FirstYear == 0 {
		o.FirstYear = DefaultFirstYear
	}
	if o.LastYear == 0 {
		o.LastYear = DefaultLastYear
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
