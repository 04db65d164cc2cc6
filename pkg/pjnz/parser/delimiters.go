// Package parser turns the delimited members of a PJNZ archive into
// rectangular tables and slices tagged sub-tables out of them.
package parser

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// DefaultDelimiter separates cells in PJNZ sheet members.
const DefaultDelimiter = ','

// NormalizeDelimiters prepends a line made only of delimiters, as many as
// the line with the most delimiters holds. Strict rectangular readers
// take their width from the first line, so the result can be parsed
// without losing cells of long rows. The original lines are kept
// unchanged.
func NormalizeDelimiters(r io.Reader, delim rune) ([]byte, error) {
	if delim == 0 {
		delim = DefaultDelimiter
	}
	sep := string(delim)

	var body bytes.Buffer
	maxCount := 0

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			body.WriteString(line)
			if n := strings.Count(line, sep); n > maxCount {
				maxCount = n
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, body.Len()+maxCount*len(sep)+1)
	out = append(out, strings.Repeat(sep, maxCount)...)
	out = append(out, '\n')
	out = append(out, body.Bytes()...)
	return out, nil
}
