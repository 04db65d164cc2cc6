package parser

import (
	"errors"
	"fmt"
)

// ErrTagNotFound indicates the requested <tag> marker is absent from column 0.
var ErrTagNotFound = errors.New("tag not found in sheet")

// ErrUnterminatedTag indicates no <End> marker follows the tag.
var ErrUnterminatedTag = errors.New("tag has no closing <End> marker")

// ErrColumnCount indicates the tagged region holds fewer data columns than labels were given.
var ErrColumnCount = errors.New("sub-table has fewer columns than labels")

// ErrTypeConversion indicates a cell could not be cast to the requested type.
var ErrTypeConversion = errors.New("type conversion failed")

// ConversionError describes the first cell that failed a type conversion.
type ConversionError struct {
	Row    int
	Column string
	Value  any
	Type   CellType
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v at row %d, column %q to %s", e.Value, e.Row, e.Column, e.Type)
}

// Is reports ErrTypeConversion as the error kind.
func (e *ConversionError) Is(target error) bool {
	return target == ErrTypeConversion
}
