package assessment

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a transition is requested while another stage
// call is already in flight for the session.
var ErrBusy = errors.New("an operation is already in progress for this session")

// ErrInvalidState is returned when a transition is requested from a status
// that does not allow it.
var ErrInvalidState = errors.New("operation not valid in the current session state")

var errNoFiles = errors.New("at least one file is required before analysis")

// AnalysisError wraps a failure during the analysis phase: the capability
// call failed, the response was unparsable, or an invariant was violated.
// The session rolls back to Idle with prior data intact.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// GenerationError wraps a failure during a part-generation phase. The
// session stays at ReadyToGenerate without advancing the part index, so
// the same part can be retried.
type GenerationError struct {
	PartIndex int
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("part %d generation failed: %v", e.PartIndex+1, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
