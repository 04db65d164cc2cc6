package specio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRNotAvailable indicates that the Rscript executable could not be run.
	ErrRNotAvailable = errors.New("Rscript not available")

	// ErrPackageMissing indicates that specio or jsonlite is not installed.
	ErrPackageMissing = errors.New("R package specio or jsonlite not installed")

	// ErrInvalidOutput indicates that the R script printed something other
	// than the expected JSON document.
	ErrInvalidOutput = errors.New("invalid specio output")
)

// RunError reports a failed Rscript invocation with its standard error.
type RunError struct {
	Call   string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("specio %s: %v", e.Call, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}
