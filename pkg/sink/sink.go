// Package sink implements the destination abstraction that a worker calls
// to emit one already-formatted record. Implementations must not fail the
// pipeline: an I/O error is reported to os.Stderr and also returned to the
// caller, which counts or reports it and never retries (spec §4.1, §7
// SinkIoError).
package sink

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/hoastyle/logger/pkg/levels"
)

// Sink is the destination abstraction. Write receives an already-formatted
// record (no trailing newline) and is responsible for appending one.
type Sink interface {
	Write(level levels.Level, b []byte) error
	Flush() error
	Close() error
}

// StdoutSink writes synchronously to the process's standard output. It
// performs no level filtering — that is the producer's and the worker
// pool's job, not the sink's (spec §4.1).
type StdoutSink struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewStdout constructs a sink writing to os.Stdout.
func NewStdout() *StdoutSink {
	return &StdoutSink{w: bufio.NewWriter(os.Stdout)}
}

// Write appends b and a trailing newline, flushing immediately so lines
// survive process exit under normal shutdown.
func (s *StdoutSink) Write(_ levels.Level, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeLocked(b); err != nil {
		reportIOError("stdout", err)
		return err
	}
	return nil
}

func (s *StdoutSink) writeLocked(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	return s.w.Flush()
}

// Flush flushes the underlying buffered writer.
func (s *StdoutSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes and is otherwise a no-op; stdout is not owned by the sink.
func (s *StdoutSink) Close() error {
	return s.Flush()
}

// reportIOError is the one-line stderr diagnostic every sink implementation
// emits on a write failure, per spec §4.1's "sink reports by writing to the
// process standard error and continues" contract.
func reportIOError(sinkName string, err error) {
	fmt.Fprintf(os.Stderr, "logger: %s sink write failed: %v\n", sinkName, err)
}
