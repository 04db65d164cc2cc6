package spectrum

import (
	"errors"
	"fmt"
)

// ErrUnknownIndicator indicates a registry lookup for an unregistered indicator.
var ErrUnknownIndicator = errors.New("unknown indicator")

// ErrInvalidExpr indicates a malformed extraction descriptor.
var ErrInvalidExpr = errors.New("invalid extraction descriptor")

// TableBuildError reports the schema field whose descriptor failed.
type TableBuildError struct {
	Field string
	Op    string
	Err   error
}

func (e *TableBuildError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("build field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("build field %q (%s): %v", e.Field, e.Op, e.Err)
}

func (e *TableBuildError) Unwrap() error {
	return e.Err
}

// SchemaError reports a problem with a schema document.
type SchemaError struct {
	Source string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("schema %s: field %q: %v", e.Source, e.Field, e.Err)
	default:
		return fmt.Sprintf("schema %s: %v", e.Source, e.Err)
	}
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
