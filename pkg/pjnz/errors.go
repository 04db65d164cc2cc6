package pjnz

import (
	"errors"
	"fmt"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
)

// ErrMemberNotFound indicates an expected member is missing from the archive.
var ErrMemberNotFound = errors.New("archive member not found")

// ErrSheetNotFound indicates the .DP master sheet was not extracted.
var ErrSheetNotFound = errors.New("DP sheet not found")

// ErrUnknownModelTable indicates a model-data output name outside the supported set.
var ErrUnknownModelTable = errors.New("unknown model data table")

// ErrNoModelDataService indicates model data was requested from a file opened without a service.
var ErrNoModelDataService = errors.New("no model data service configured")

// Errors raised while slicing tagged sub-tables.
var (
	ErrTagNotFound     = parser.ErrTagNotFound
	ErrUnterminatedTag = parser.ErrUnterminatedTag
	ErrColumnCount     = parser.ErrColumnCount
	ErrTypeConversion  = parser.ErrTypeConversion
)

// MemberNotFoundError names the archive and the member that was expected in it.
type MemberNotFoundError struct {
	Archive string
	Member  string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("%s: member %q not found", e.Archive, e.Member)
}

// Is reports ErrMemberNotFound as the error kind.
func (e *MemberNotFoundError) Is(target error) bool {
	return target == ErrMemberNotFound
}

// ExtractionError represents an error while extracting a table from the archive.
type ExtractionError struct {
	Tag       string
	Component string // "dp", "convert", "model"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for %q (%s): %v", e.Tag, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(tag, component string, err error) *ExtractionError {
	return &ExtractionError{
		Tag:       tag,
		Component: component,
		Err:       err,
	}
}
