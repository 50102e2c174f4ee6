package errs_test

import (
	"errors"
	"testing"

	"github.com/hoastyle/logger/pkg/errs"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := errs.Wrap(errs.ErrConfigInvalid, "stdout sink with file_path set")
	if !errors.Is(err, errs.ErrConfigInvalid) {
		t.Fatalf("expected wrapped error to match ErrConfigInvalid, got %v", err)
	}
}

func TestWrapfFormats(t *testing.T) {
	err := errs.Wrapf(errs.ErrPathCreateFailed, "creating %s", "/var/log/app")
	if err.Error() == "" {
		t.Fatalf("expected non-empty error message")
	}
	if !errors.Is(err, errs.ErrPathCreateFailed) {
		t.Fatalf("expected wrapped error to match ErrPathCreateFailed, got %v", err)
	}
}

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	pe := errs.NewPipelineError("write", "failed to write record", cause, errs.SeverityMedium)
	if errors.Unwrap(pe) != cause {
		t.Fatalf("expected Unwrap to return %v, got %v", cause, errors.Unwrap(pe))
	}
	if pe.Error() == "" {
		t.Fatalf("expected non-empty error message")
	}
}
