package logger

import (
	"context"
	"time"

	"github.com/hoastyle/logger/pkg/config"
	"github.com/hoastyle/logger/pkg/levels"
	"github.com/hoastyle/logger/pkg/manager"
	"github.com/hoastyle/logger/pkg/metrics"
	"github.com/hoastyle/logger/pkg/ratelimit"
)

// Re-exported so callers never need to import pkg/levels or pkg/config
// directly for common usage.
type (
	Level    = levels.Level
	Config   = config.Config
	SinkKind = config.SinkKind
	Snapshot = metrics.Snapshot
)

const (
	Verbose = levels.Verbose
	Debug   = levels.Debug
	Info    = levels.Info
	Warn    = levels.Warn
	Error   = levels.Error
	Fatal   = levels.Fatal
	NoLog   = levels.NoLog
)

const (
	SinkStdout    = config.SinkStdout
	SinkFile      = config.SinkFile
	SinkAsyncFile = config.SinkAsyncFile
)

// DefaultConfig returns a Config with sensible defaults: stdout sink, Info
// threshold, file logging disabled.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// Logger wraps the process-wide pipeline Manager singleton. Every Logger
// value returned by New shares the same underlying Manager — there is
// exactly one running pipeline per process, matching the
// LoggerManager::instance() singleton this module is grounded on.
type Logger struct {
	m *manager.Manager
}

// New validates cfg, wires the pipeline it selects, and starts the worker
// pool (if the sink kind is SinkAsyncFile). The returned Logger must be
// closed with Close to flush and release its sink.
func New(ctx context.Context, cfg *Config) (*Logger, error) {
	m := manager.Instance()
	if err := m.Setup(cfg); err != nil {
		return nil, err
	}
	if err := m.Start(ctx); err != nil {
		return nil, err
	}
	return &Logger{m: m}, nil
}

// Emit submits a raw, already-formatted record at level. With SinkAsyncFile
// it never blocks on I/O and under overload it may be dropped per the
// priority-aware policy; with SinkStdout or SinkFile it writes to the sink
// on the caller's goroutine. It terminates the process immediately if level
// is Fatal.
func (l *Logger) Emit(level Level, payload []byte) error {
	return l.m.Emit(level, payload)
}

// Emitf formats payload with the fixed
// "<timestamp>.<ms> <tid> <file40>::<func>() <line> <L>: <msg>" prefix and
// submits it exactly as Emit would.
func (l *Logger) Emitf(level Level, tid int64, file, fn string, line int, format string, args ...interface{}) error {
	return l.m.Emitf(level, tid, file, fn, line, format, args...)
}

// Stats returns the current enqueued/processed/dropped/overflow snapshot.
func (l *Logger) Stats() Snapshot {
	return l.m.Stats()
}

// Close joins every worker, flushes whatever remains queued, logs the
// stats line to stderr, and closes the sink. Calling Close more than once
// is safe and a no-op past the first call.
func (l *Logger) Close() error {
	return l.m.Teardown()
}

// Gate is a per-site rate limiter wrapping a Logger's Emit.
type Gate = ratelimit.Gate

// emitterAdapter lets *Logger satisfy ratelimit.Emitter without exposing
// the error return Emit has but ratelimit.Emitter's Emit does not.
type emitterAdapter struct{ l *Logger }

func (a emitterAdapter) Emit(level Level, payload []byte) {
	_ = a.l.Emit(level, payload)
}

// NewGate constructs a Gate admitting at most one Emit call per interval
// through this Logger. Each call site should hold its own Gate; a single
// Gate shared across goroutines gives best-effort, not exact, rate
// limiting (spec §4.7).
func (l *Logger) NewGate(interval time.Duration) *Gate {
	return ratelimit.NewGate(interval, emitterAdapter{l: l})
}
