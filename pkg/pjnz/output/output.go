// Package output serializes indicator tables for publication.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX, FormatSQLite}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (must be csv, json, xlsx or sqlite)", s)
}

// WriteAll writes the tables built from one archive into dir and returns
// the paths written. CSV and JSON produce one file per table named
// <stem>_<table>; XLSX produces <stem>.xlsx with one sheet per table and
// SQLite produces <stem>.db with one database table per table.
func WriteAll(ctx context.Context, dir, stem string, format Format, tables map[string]*models.Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	switch format {
	case FormatCSV, FormatJSON:
		var paths []string
		for _, name := range names {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stem, name, format))
			if err := writeFile(path, format, tables[name]); err != nil {
				return paths, fmt.Errorf("write %s: %w", name, err)
			}
			paths = append(paths, path)
		}
		return paths, nil

	case FormatXLSX:
		path := filepath.Join(dir, stem+".xlsx")
		if err := WriteXLSX(path, tables); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case FormatSQLite:
		path := filepath.Join(dir, stem+".db")
		for _, name := range names {
			if err := WriteSQLite(ctx, path, name, tables[name]); err != nil {
				return nil, fmt.Errorf("write %s: %w", name, err)
			}
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func writeFile(path string, format Format, t *models.Table) error {
	if format == FormatJSON {
		data, err := ToJSON(t, true)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(out, t); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
