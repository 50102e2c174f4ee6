// Package errs holds the error taxonomy from spec §7. Only ConfigInvalid
// and PathCreateFailed ever propagate to a caller (of Setup) — everything
// else is a steady-state counter increment, never an exception on the
// producer path, so producer latency stays bounded.
//
// The wrapped/sentinel split mirrors the teacher's own: github.com/pkg/errors
// for Wrap/Wrapf at the setup boundary (flocklogger.go and errors.go both
// import it directly), and a LogError-shaped struct (pkg/omni/errors.go)
// for everything recorded about the pipeline's own internals.
package errs

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Sentinel errors for the setup-boundary taxonomy. Wrap these with
// errors.Wrap/Wrapf to attach context; callers can still errors.Is against
// the sentinel.
var (
	// ErrConfigInvalid signals contradictory options, e.g. a Stdout sink
	// with a file path set.
	ErrConfigInvalid = errors.New("config invalid")

	// ErrPathCreateFailed signals the file sink could not create its log
	// directory.
	ErrPathCreateFailed = errors.New("log path creation failed")

	// ErrNotConfigured signals Start, Emit or Emitf was called before a
	// successful Setup (Teardown before Setup is a silent no-op) — the programming error spec §4.6 calls out:
	// "entering Running without a prior successful setup."
	ErrNotConfigured = errors.New("logger not configured")
)

// Wrap attaches a message to a sentinel, matching the teacher's own use of
// errors.Wrap at the setup boundary.
func Wrap(sentinel error, msg string) error {
	return errors.Wrap(sentinel, msg)
}

// Wrapf attaches a formatted message to a sentinel.
func Wrapf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrapf(sentinel, format, args...)
}

// Severity mirrors the teacher's ErrorLevel scale for internal, non-
// propagated diagnostics (sink I/O failures, config normalization
// warnings).
type Severity int

const (
	SeverityLow Severity = iota
	SeverityWarn
	SeverityMedium
	SeverityHigh
)

// PipelineError is the shape every steady-state, non-propagated error
// takes before it is reported to stderr and discarded; it is never
// returned from the hot Emit path, only passed to an error-reporting
// callback.
type PipelineError struct {
	Operation string
	Message   string
	Err       error
	Level     Severity
	Timestamp time.Time
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError constructs a PipelineError stamped with the current
// time.
func NewPipelineError(op, msg string, err error, level Severity) *PipelineError {
	return &PipelineError{Operation: op, Message: msg, Err: err, Level: level, Timestamp: time.Now()}
}
