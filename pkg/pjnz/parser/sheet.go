package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
)

// ParseOptions configures how a sheet member is read.
type ParseOptions struct {
	// Delimiter separates cells. Defaults to a comma.
	Delimiter rune
	// Type is applied to every non-empty cell. TypeUnset and TypeString
	// keep text; TypeAuto infers numbers.
	Type CellType
}

// ParseSheet reads ragged delimited text into a rectangular table.
//
// The text is normalized first, and the width of the synthetic first
// line is the width of the table. That line is consumed; row labels are
// the 0-based line positions of the original text. Columns are labelled
// by their 0-based position. Empty cells are missing.
func ParseSheet(r io.Reader, opts ParseOptions) (*models.Table, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}

	data, err := NormalizeDelimiters(r, delim)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	nl := bytes.IndexByte(data, '\n')
	width := strings.Count(string(data[:nl]), string(delim)) + 1

	cr := csv.NewReader(bytes.NewReader(data[nl+1:]))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	columns := make([]string, width)
	for i := range columns {
		columns[i] = strconv.Itoa(i)
	}
	table := models.NewTable(columns...)

	for line := 0; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse sheet line %d: %w", line, err)
		}
		row := make([]any, width)
		for j, cell := range record {
			if j >= width {
				break
			}
			if cell == "" {
				continue
			}
			row[j] = typedValue(cell, opts.Type)
		}
		table.AppendRow(line, row)
	}

	if opts.Type == TypeInt || opts.Type == TypeFloat {
		return ConvertTable(table, opts.Type)
	}
	return table, nil
}

func typedValue(s string, t CellType) any {
	if t == TypeAuto {
		return parseValue(s)
	}
	return s
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
