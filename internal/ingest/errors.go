package ingest

import (
	"errors"
	"fmt"
)

// Input errors. The HTTP layer reports these to the client as 400s.
var (
	ErrUnsupportedFile = errors.New("only .xlsx and .parquet files are supported")
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrNoClaims        = errors.New("no valid claims data found")
	ErrTooFewClaims    = errors.New("too few valid claims for meaningful analysis")
	ErrUnreadableFile  = errors.New("failed to parse file")
	ErrNoDataRows      = errors.New("file has no data rows")
)

// Pipeline phases.
const (
	PhasePreflight = "preflight"
	PhaseParse     = "parse"
	PhaseCompute   = "compute"
	PhaseNarrate   = "narrate"
	PhaseDeliver   = "deliver"
	PhaseRecord    = "record"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by the uploaded file rather
// than by the system.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedFile, ErrFileTooLarge, ErrMissingColumns, ErrNoClaims,
		ErrTooFewClaims, ErrUnreadableFile, ErrNoDataRows,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
