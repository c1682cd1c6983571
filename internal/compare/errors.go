package compare

import (
	"errors"
	"fmt"
)

// ExtractionError means the byte stream could not be parsed as a PDF at all.
// Individual pages without extractable text do not produce this error.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TransformationError means the model call for one chunk pair failed with a
// non-retryable error or exhausted its retry budget. It aborts the request.
type TransformationError struct {
	PairIndex int
	Attempts  int
	Err       error
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("transform chunk pair %d after %d attempt(s): %v", e.PairIndex, e.Attempts, e.Err)
}

func (e *TransformationError) Unwrap() error { return e.Err }

// Reserved sentinels. Chunking and diffing are total over string input and
// never return these today.
var (
	ErrChunking = errors.New("chunking failed")
	ErrDiff     = errors.New("diff failed")
)

// StageError tags a pipeline failure with the stage that produced it while
// leaving the underlying error reachable through errors.As/Is.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageNameFromError reports which pipeline stage failed, or "pipeline" when
// the error carries no stage tag.
func StageNameFromError(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return "pipeline"
}
