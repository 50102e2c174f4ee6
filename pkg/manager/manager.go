// Package manager owns the process-wide lifecycle of the logging
// pipeline: Init, Setup, Start, Teardown. It is the only package that
// wires pool, queue, worker pool, pipeline, and sink together; every
// other package stays ignorant of how the others are constructed.
//
// Grounded on original_source/include/LoggerManager.hpp's
// LoggerManager::instance() Meyers singleton and its setup/setupLogger/
// teardown method set.
package manager

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hoastyle/logger/pkg/config"
	"github.com/hoastyle/logger/pkg/errs"
	"github.com/hoastyle/logger/pkg/levels"
	"github.com/hoastyle/logger/pkg/metrics"
	"github.com/hoastyle/logger/pkg/pipeline"
	"github.com/hoastyle/logger/pkg/pool"
	"github.com/hoastyle/logger/pkg/queue"
	"github.com/hoastyle/logger/pkg/sink"
	"github.com/hoastyle/logger/pkg/workerpool"
)

// Manager is the process-wide singleton coordinating every pipeline
// component across Setup, Start, and Teardown.
type Manager struct {
	mu        sync.Mutex
	cfg       *config.Config
	metrics   metrics.Counters
	sk        sink.Sink
	q         *queue.Queue
	slots     *pool.Pool
	workers   *workerpool.Pool
	pipe      *pipeline.Pipeline
	configured bool
	started    bool
	cancel     context.CancelFunc
}

var (
	instance     *Manager
	instanceOnce sync.Once
)

// Instance returns the process-wide Manager, constructing it on first
// call. Mirrors LoggerManager::instance()'s lazy Meyers-singleton
// initialization.
func Instance() *Manager {
	instanceOnce.Do(func() {
		instance = &Manager{}
	})
	return instance
}

// Setup validates cfg, builds the sink the configuration selects, and —
// for SinkAsyncFile — wires the pool, queue, pipeline, and worker pool in
// front of it. It does not start the worker goroutines; call Start for
// that. Calling Setup again after a successful Setup re-initializes the
// whole pipeline from scratch, matching LoggerManager::setup's
// re-entrant contract.
func (m *Manager) Setup(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	sk, err := buildSink(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg = cfg
	m.sk = sk
	m.metrics.Reset()

	mask := minLevel(cfg.StderrThreshold, cfg.FileThreshold)

	if cfg.SinkKind == config.SinkAsyncFile {
		m.q = queue.New(cfg.QueueCapacity)
		m.slots = pool.New(cfg.PoolSize, 0)
		m.pipe = pipeline.New(mask, m.q, m.slots, sk, sk, cfg.DebugEnabled, &m.metrics)
		m.workers = workerpool.New(m.q, m.slots, m.pipe, cfg.BatchSize, cfg.NumWorkers, reportSinkError, &m.metrics)
	} else {
		// Synchronous sinks (SinkStdout, SinkFile) still go through
		// Pipeline for its mask/fatal logic, but in passthrough mode:
		// there is no worker pool to drain a queue, so Pipeline dispatches
		// directly on the caller's goroutine instead.
		m.q = nil
		m.slots = nil
		m.pipe = pipeline.New(mask, nil, nil, sk, sk, cfg.DebugEnabled, &m.metrics)
		m.workers = nil
	}

	m.configured = true
	m.started = false
	return nil
}

// Start launches the worker pool, if the configured sink kind uses one.
// Synchronous sinks (Stdout, File) have nothing to start.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.configured {
		return errs.ErrNotConfigured
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	if m.workers != nil {
		m.workers.Start(ctx)
	}
	m.started = true
	return nil
}

// Emit is the process-wide entry point every public logger.Emit call
// funnels through.
func (m *Manager) Emit(level levels.Level, payload []byte) error {
	m.mu.Lock()
	pipe := m.pipe
	configured := m.configured
	m.mu.Unlock()

	if !configured {
		return errs.ErrNotConfigured
	}
	pipe.Emit(level, payload)
	return nil
}

// Emitf builds the formatted prefix and forwards to Emit.
func (m *Manager) Emitf(level levels.Level, tid int64, file, fn string, line int, format string, args ...interface{}) error {
	m.mu.Lock()
	pipe := m.pipe
	configured := m.configured
	m.mu.Unlock()

	if !configured {
		return errs.ErrNotConfigured
	}
	pipe.Emitf(level, tid, file, fn, line, format, args...)
	return nil
}

// Stats returns the current four-counter snapshot.
func (m *Manager) Stats() metrics.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics.Load()
}

// Teardown joins every worker, drains whatever is left in the queue, logs
// the exact stats line to stderr, and closes the sink. It is safe to call
// on an unstarted or already-torn-down Manager (no-op past the first
// call), matching spec §8 property 8's setup/teardown idempotence.
func (m *Manager) Teardown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.configured {
		return nil
	}

	if m.cancel != nil {
		m.cancel()
	}
	if m.q != nil {
		m.q.Shutdown()
	}
	if m.workers != nil {
		m.workers.Wait()
		m.workers.FinalDrain()
	}

	fmt.Fprintln(os.Stderr, m.metrics.Load().StatsLine())

	var closeErr error
	if m.sk != nil {
		closeErr = m.sk.Close()
	}

	m.configured = false
	m.started = false
	m.cancel = nil
	return closeErr
}

func buildSink(cfg *config.Config) (sink.Sink, error) {
	switch cfg.SinkKind {
	case config.SinkStdout:
		return sink.NewStdout(), nil
	case config.SinkFile, config.SinkAsyncFile:
		fs, err := sink.NewFileSink(sink.FileSinkOptions{
			Dir:             cfg.FilePath,
			AppName:         cfg.AppID,
			MaxSize:         cfg.MaxLogSize,
			RetentionPeriod: cfg.RetentionPeriod,
			MirrorToConsole: cfg.LogToConsole,
			StderrThreshold: cfg.StderrThreshold,
			FileThreshold:   cfg.FileThreshold,
		})
		if err != nil {
			return nil, errs.Wrapf(errs.ErrPathCreateFailed, "setting up file sink at %s: %v", cfg.FilePath, err)
		}
		return fs, nil
	default:
		return sink.NewStdout(), nil
	}
}

func reportSinkError(err error) {
	pe := errs.NewPipelineError("dispatch", "sink write failed", err, errs.SeverityWarn)
	fmt.Fprintf(os.Stderr, "logger: %v\n", pe)
}

func minLevel(a, b levels.Level) levels.Level {
	if a < b {
		return a
	}
	return b
}
