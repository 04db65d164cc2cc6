package parser

import (
	"strings"
	"testing"
)

func TestNormalizeDelimiters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		delim    rune
		expected string
	}{
		{"empty", "", ',', "\n"},
		{"single line", "a,b,c\n", ',', ",,\na,b,c\n"},
		{"ragged", "a\nb,c,d,e\nf,g\n", ',', ",,,\na\nb,c,d,e\nf,g\n"},
		{"no trailing newline", "a,b\nc", ',', ",\na,b\nc"},
		{"semicolon", "a;b;c\nd", ';', ";;\na;b;c\nd"},
		{"default delimiter", "x,y", 0, ",\nx,y"},
	}

	for _, tt := range tests {
		result, err := NormalizeDelimiters(strings.NewReader(tt.input), tt.delim)
		if err != nil {
			t.Fatalf("%s: NormalizeDelimiters failed: %v", tt.name, err)
		}
		if string(result) != tt.expected {
			t.Errorf("%s: NormalizeDelimiters(%q) = %q, expected %q", tt.name, tt.input, result, tt.expected)
		}
	}
}

func TestNormalizeDelimitersHeaderCoversEveryLine(t *testing.T) {
	input := "<Tag>,,\n,Name\n,,,1,2,3,4,5\n<End>\n,,,,,,,,,,\n"
	result, err := NormalizeDelimiters(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("NormalizeDelimiters failed: %v", err)
	}

	lines := strings.Split(string(result), "\n")
	header := strings.Count(lines[0], ",")
	for _, line := range lines[1:] {
		if n := strings.Count(line, ","); n > header {
			t.Errorf("line %q has %d delimiters, header has %d", line, n, header)
		}
	}
	if got := strings.Join(lines[1:], "\n"); got != input {
		t.Errorf("original lines altered: %q", got)
	}
}
